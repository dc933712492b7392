// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hostdsp

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWav encodes samples (in [-1, 1]) as a mono 16-bit PCM WAV file at
// sampleRate.
func WriteWav(path string, samples []float64, sampleRate int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("hostdsp: create %s: %w", path, err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, sampleRate, 16, 1, 1)

	ints := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		ints[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   ints,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("hostdsp: encode %s: %w", path, err)
	}
	return enc.Close()
}
