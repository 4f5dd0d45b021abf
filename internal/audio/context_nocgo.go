//go:build nocgo

package audio

import "errors"

func newDeviceContext(Options) (Context, error) {
	return nil, errors.Join(ErrUnavailable, errors.New("audio not available in nocgo build"))
}
