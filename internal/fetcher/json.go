package fetcher

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

// DecodeJSONArray decodes a top-level JSON array, sending each element to a
// channel. Numbers in untyped values arrive as json.Number. Both channels are
// closed when processing completes.
func DecodeJSONArray[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	return decodeJSON[T](ctx, r, "")
}

// DecodeJSONField streams the array stored under key in a top-level JSON
// object, e.g. the "managed" list of a dataset file. Other keys are skipped.
func DecodeJSONField[T any](ctx context.Context, r io.Reader, key string) (<-chan T, <-chan error) {
	return decodeJSON[T](ctx, r, key)
}

func decodeJSON[T any](ctx context.Context, r io.Reader, key string) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		// Keep numbers as json.Number so large ids survive untouched.
		decoder.UseNumber()
		if key != "" {
			if err := seekKey(decoder, key); err != nil {
				errCh <- err
				return
			}
		}

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF && key == "" {
				return
			}
			errCh <- eris.Wrap(err, "json: read opening token")
			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			errCh <- eris.Errorf("json: expected '[', got %v", tok)
			return
		}

		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "json: decode element")
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "json: context cancelled")
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "json: read closing token")
		}
	}()

	return outCh, errCh
}

// seekKey advances decoder past the name of key in a top-level object.
func seekKey(decoder *json.Decoder, key string) error {
	tok, err := decoder.Token()
	if err != nil {
		return eris.Wrap(err, "json: read opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("json: expected '{', got %v", tok)
	}

	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return eris.Wrap(err, "json: read key")
		}
		name, _ := tok.(string)
		if name == key {
			return nil
		}
		var skip json.RawMessage
		if err := decoder.Decode(&skip); err != nil {
			return eris.Wrapf(err, "json: skip %q", name)
		}
	}
	return eris.Errorf("json: key %q not found", key)
}
