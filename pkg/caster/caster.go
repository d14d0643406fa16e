// Package caster codecs typed payloads onto the string channels used by the
// pubsub bus and the websocket stream.
package caster

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type ChannelCaster[T any] interface {
	From(string) (T, error)
	To(T) (string, error)
}

type JSONChannelCaster[T any] struct{}

func (jc JSONChannelCaster[T]) From(data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, errors.Wrap(err, "decoding channel payload")
	}
	return v, nil
}

func (jc JSONChannelCaster[T]) To(v T) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encoding channel payload")
	}
	return string(data), nil
}
