package modules

import "github.com/navicore/zim-dsp-go/internal/graph"

// Noise produces white, pink, and brown noise simultaneously from one
// LCG source. Pink uses Paul Kellet's seven-pole approximation; brown
// integrates white noise with a soft clip to prevent runaway.
type Noise struct {
	rngState   uint32
	pinkState  [7]float32
	brownState float32
}

func NewNoise() *Noise {
	return &Noise{rngState: 12345}
}

func (nz *Noise) Inputs() []graph.PortDescriptor { return nil }

func (nz *Noise) Outputs() []graph.PortDescriptor {
	return []graph.PortDescriptor{{Name: "white"}, {Name: "pink"}, {Name: "brown"}}
}

func (nz *Noise) nextRandom() float32 {
	nz.rngState = nz.rngState*1664525 + 1013904223
	return float32(int32(nz.rngState)) / float32(int32(1<<31-1))
}

func (nz *Noise) generatePink() float32 {
	white := nz.nextRandom()

	nz.pinkState[0] = 0.99886*nz.pinkState[0] + white*0.0555179
	nz.pinkState[1] = 0.99332*nz.pinkState[1] + white*0.0750759
	nz.pinkState[2] = 0.96900*nz.pinkState[2] + white*0.1538520
	nz.pinkState[3] = 0.86650*nz.pinkState[3] + white*0.3104856
	nz.pinkState[4] = 0.55000*nz.pinkState[4] + white*0.5329522
	nz.pinkState[5] = -0.7616*nz.pinkState[5] + white*0.0168980

	pink := nz.pinkState[0] + nz.pinkState[1] + nz.pinkState[2] + nz.pinkState[3] +
		nz.pinkState[4] + nz.pinkState[5] + nz.pinkState[6] + white*0.5362

	nz.pinkState[6] = white * 0.115926

	return pink * 0.11
}

func (nz *Noise) generateBrown() float32 {
	white := nz.nextRandom()
	nz.brownState += white * 0.02

	if nz.brownState > 1.0 {
		nz.brownState = 1.0 - (nz.brownState-1.0)*0.5
	} else if nz.brownState < -1.0 {
		nz.brownState = -1.0 - (nz.brownState+1.0)*0.5
	}

	return nz.brownState
}

func (nz *Noise) Process(inputs, outputs *graph.PortBuffers, n int) {
	bufs := out(outputs, n, "white", "pink", "brown")
	white, pink, brown := bufs[0], bufs[1], bufs[2]

	for i := 0; i < n; i++ {
		white[i] = nz.nextRandom()
		pink[i] = nz.generatePink()
		brown[i] = nz.generateBrown()
	}
}

func (nz *Noise) SetParam(name string, value float32) error {
	if name != "seed" {
		return errUnknownParam(name)
	}
	nz.rngState = uint32(value)
	return nil
}

func (nz *Noise) GetParam(name string) (float32, bool) {
	if name == "seed" {
		return float32(nz.rngState), true
	}
	return 0, false
}
