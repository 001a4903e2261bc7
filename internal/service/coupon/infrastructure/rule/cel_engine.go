// internal/service/coupon/infrastructure/rule/cel_engine.go
package rule

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"bazaar/internal/service/coupon/domain"
)

// CELRuleEngineAdapter 是 domain.RuleEngine 接口的 CEL 实现。
// 管理员在券上配置的附加条件是一条返回布尔值的 CEL 表达式，
// 例如 "orderAmount >= 200.0"。
// 这是典型的适配器：把第三方表达式引擎适配到我们自己的领域接口。
type CELRuleEngineAdapter struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program // 按规则文本缓存编译结果
}

// NewCELRuleEngineAdapter 创建一个新的规则引擎适配器实例。
// 环境中声明的变量集合即规则可见的全部事实。
func NewCELRuleEngineAdapter() (*CELRuleEngineAdapter, error) {
	env, err := cel.NewEnv(
		cel.Variable("orderAmount", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &CELRuleEngineAdapter{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Evaluate 实现了 domain.RuleEngine 接口。
func (a *CELRuleEngineAdapter) Evaluate(ruleDefinition string, fact domain.Fact) (bool, error) {
	prg, err := a.program(ruleDefinition)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"orderAmount": fact.OrderAmount,
	})
	if err != nil {
		return false, fmt.Errorf("rule evaluation failed: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule did not evaluate to a boolean: %q", ruleDefinition)
	}
	return result, nil
}

func (a *CELRuleEngineAdapter) program(ruleDefinition string) (cel.Program, error) {
	a.mu.RLock()
	prg, ok := a.programs[ruleDefinition]
	a.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := a.env.Compile(ruleDefinition)
	if iss.Err() != nil {
		// 规则文本本身可能存在语法错误
		return nil, fmt.Errorf("invalid rule definition: %w", iss.Err())
	}
	prg, err := a.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule program: %w", err)
	}

	a.mu.Lock()
	a.programs[ruleDefinition] = prg
	a.mu.Unlock()
	return prg, nil
}
