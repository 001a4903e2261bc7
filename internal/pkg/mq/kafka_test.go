package mq

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestKafkaHeaderCarrier_SetGet(t *testing.T) {
	carrier := KafkaHeaderCarrier{}

	carrier.Set("traceparent", "00-abc-def-01")
	assert.Equal(t, "00-abc-def-01", carrier.Get("traceparent"))
	assert.Equal(t, "", carrier.Get("missing"))
}

func TestKafkaHeaderCarrier_SetOverwrites(t *testing.T) {
	carrier := KafkaHeaderCarrier{{Key: "traceparent", Value: []byte("old")}}

	carrier.Set("traceparent", "new")

	assert.Len(t, carrier, 1)
	assert.Equal(t, "new", carrier.Get("traceparent"))
}

func TestKafkaHeaderCarrier_Keys(t *testing.T) {
	carrier := KafkaHeaderCarrier{
		{Key: "a", Value: []byte("1")},
		kafka.Header{Key: "b", Value: []byte("2")},
	}
	assert.ElementsMatch(t, []string{"a", "b"}, carrier.Keys())
}
