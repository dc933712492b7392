// Copyright (c) 2019, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command trombonedemo drives a trm.Voice with hostdsp's noise/bandpass
// chain, writes the result to a WAV file and, with -play, also plays that
// file live.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/vocalsynth/trombone/hostdsp"
	"github.com/vocalsynth/trombone/trm"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 44100, "output sample rate")
		seconds    = flag.Float64("seconds", 2.0, "duration to synthesize")
		blockSize  = flag.Int("block", 512, "samples per ProcessBlock call")
		n          = flag.Int("n", trm.DefaultN, "tract length in segments (30-60)")
		preset     = flag.String("preset", "ah", "parameter preset: ah|ee|frication|plosive|bend")
		out        = flag.String("out", "trombone.wav", "output WAV path")
		play       = flag.Bool("play", false, "also play the result live after writing it")
		seed       = flag.Uint64("seed", 1, "voice PRNG seed")
	)
	flag.Parse()

	params, err := presetParams(*preset)
	if err != nil {
		log.Fatal(err)
	}
	params.N = *n

	voice := trm.NewVoice(float64(*sampleRate), *seed)
	voice.SetParams(params)

	aspiration := hostdsp.NewNoiseSource(float64(*sampleRate), hostdsp.AspirationBand, *seed)
	fricative := hostdsp.NewNoiseSource(float64(*sampleRate), hostdsp.FricativeBand, *seed+1)

	total := int(*seconds * float64(*sampleRate))
	samples := make([]float64, 0, total)

	aspIn := make([]float64, *blockSize)
	fricIn := make([]float64, *blockSize)
	block := make([]float64, *blockSize)

	for len(samples) < total {
		b := *blockSize
		if remain := total - len(samples); remain < b {
			b = remain
		}
		aspiration.ProcessBlock(aspIn[:b])
		fricative.ProcessBlock(fricIn[:b])
		voice.ProcessBlock(aspIn[:b], fricIn[:b], block[:b])
		samples = append(samples, block[:b]...)
	}

	centroid := hostdsp.SpectralCentroid(samples, float64(*sampleRate))
	log.Printf("synthesized %d samples, preset=%s, spectral centroid=%.1fHz", len(samples), *preset, centroid)

	if err := hostdsp.WriteWav(*out, samples, *sampleRate); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)

	if *play {
		if err := hostdsp.PlayWavFile(*out, *sampleRate, 1, 2); err != nil {
			log.Fatal(err)
		}
	}
}

// presetParams returns the starting Params for one of the demo's named
// presets.
func presetParams(name string) (trm.Params, error) {
	p := trm.DefaultParams()
	switch strings.ToLower(name) {
	case "ah": // sustained vowel
		p.Frequency = 120
		p.Tenseness = 0.6
		p.TongueIndexFrac = 0.5
		p.TongueDiameter = 2.43
	case "ee": // front tongue position, raised tongue body
		p.Frequency = 140
		p.Tenseness = 0.6
		p.TongueIndexFrac = 0.85
		p.TongueDiameter = 2.1
	case "frication": // narrow-but-open constriction
		p.Frequency = 0
		p.Tenseness = 0
		p.ConstrictionIndex = 40
		p.ConstrictionDiameter = 0.4
		p.FricativeStrength = 1
	case "plosive": // held closure (the -1 diameter clamps to 0); no release within the render
		p.Frequency = 110
		p.Tenseness = 0.6
		p.ConstrictionIndex = 42
		p.ConstrictionDiameter = -1
		p.TransientStrength = 1
	case "bend": // fixed +12 semitone pitch bend
		p.Frequency = 100
		p.Pitchbend = 12
		p.Tenseness = 0.6
	default:
		return p, fmt.Errorf("unknown preset %q (expected ah|ee|frication|plosive|bend)", name)
	}
	return p, nil
}
