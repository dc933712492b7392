// Copyright (c) 2021, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostdsp

import (
	"fmt"
	"io"
	"os"

	ebiwav "github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/hajimehoshi/oto"
)

// PlayWavFile plays a previously-written WAV file through an oto context.
// A single blocking call is enough here since the demo CLI only ever has
// one player in flight.
func PlayWavFile(path string, sampleRate, channels, bitDepth int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hostdsp: open %s: %w", path, err)
	}
	defer f.Close()

	stream, err := ebiwav.DecodeWithSampleRate(sampleRate, f)
	if err != nil {
		return fmt.Errorf("hostdsp: decode %s: %w", path, err)
	}

	ctx, err := oto.NewContext(sampleRate, channels, bitDepth, 4096)
	if err != nil {
		return fmt.Errorf("hostdsp: open audio output: %w", err)
	}
	defer ctx.Close()

	p := ctx.NewPlayer()
	defer p.Close()
	if _, err := io.Copy(p, stream); err != nil {
		return fmt.Errorf("hostdsp: playback: %w", err)
	}
	return nil
}
