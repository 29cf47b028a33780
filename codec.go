package server

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

func encodeMessage(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, eris.Wrap(err, "encode message")
	}
	return data, nil
}
