package mathkit

import "math"

// epsilon regularizes auto-spectra so a division by a near-zero spectrum
// cannot blow up gain/coherence estimates.
const epsilon = 1e-12

// TransferFunction is the frequency-domain input-output relationship between
// a perturbation x and a response y: gain, phase (radians), and coherence
// per frequency bin.
type TransferFunction struct {
	Freq      []float64
	Gain      []float64
	Phase     []float64
	Coherence []float64
}

// ComputeTransferFunction windows and FFTs x and y (the perturbation input
// and the response output), then derives gain = |Sxy|/Sxx, phase = arg(Sxy),
// coherence = |Sxy|^2/(Sxx*Syy), where Sxy = X * conj(Y), Sxx = |X|^2+eps,
// Syy = |Y|^2+eps.
//
// x and y must be the same length.
func ComputeTransferFunction(x, y []float64, sampleRate float64) TransferFunction {
	X := WindowedFFT(x)
	Y := WindowedFFT(y)
	n := len(X)
	half := n/2 + 1

	tf := TransferFunction{
		Freq:      make([]float64, half),
		Gain:      make([]float64, half),
		Phase:     make([]float64, half),
		Coherence: make([]float64, half),
	}

	for i := 0; i < half; i++ {
		sxy := X[i] * complex(real(Y[i]), -imag(Y[i]))
		sxx := real(X[i])*real(X[i]) + imag(X[i])*imag(X[i]) + epsilon
		syy := real(Y[i])*real(Y[i]) + imag(Y[i])*imag(Y[i]) + epsilon

		magSxy := math.Hypot(real(sxy), imag(sxy))

		tf.Freq[i] = float64(i) * sampleRate / float64(n)
		tf.Gain[i] = magSxy / sxx
		tf.Phase[i] = math.Atan2(imag(sxy), real(sxy))
		tf.Coherence[i] = (magSxy * magSxy) / (sxx * syy)
	}
	return tf
}

// NearestBinFreq returns the index into tf.Freq closest to target.
func (tf TransferFunction) NearestBinFreq(target float64) int {
	best := 0
	bestDiff := math.Abs(tf.Freq[0] - target)
	for i := 1; i < len(tf.Freq); i++ {
		d := math.Abs(tf.Freq[i] - target)
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return best
}
