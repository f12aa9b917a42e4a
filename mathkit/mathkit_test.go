package mathkit_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/glyphwatch/clnp/mathkit"
)

func TestFFTRoundTrip(t *testing.T) {
	for _, n := range []int{64, 128, 256} {
		rng := rand.New(rand.NewSource(int64(n)))
		x := make([]complex128, n)
		original := make([]float64, n)
		for i := range x {
			v := rng.Float64()*2 - 1
			original[i] = v
			x[i] = complex(v, 0)
		}

		mathkit.FFTInPlace(x)
		recon := mathkit.IFFT(x)

		for i := range original {
			diff := math.Abs(recon[i] - original[i])
			denom := math.Max(1, math.Abs(original[i]))
			if diff/denom > 1e-9 {
				t.Fatalf("n=%d i=%d: got %v want %v (rel err %v)", n, i, recon[i], original[i], diff/denom)
			}
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128}
	for in, want := range cases {
		if got := mathkit.NextPowerOfTwo(in); got != want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestResampleUniform(t *testing.T) {
	samples := []mathkit.Sample{{T: 0, V: 0}, {T: 100, V: 10}, {T: 300, V: 30}}
	out := mathkit.ResampleUniform(samples, 10) // 100 ms step
	if len(out) == 0 {
		t.Fatal("expected resampled output")
	}
	if out[0].T != 0 || out[0].V != 0 {
		t.Errorf("first sample = %+v", out[0])
	}
	last := out[len(out)-1]
	if math.Abs(last.T-300) > 1e-9 {
		t.Errorf("last sample time = %v, want 300", last.T)
	}
}

func TestVelocitySkipsNonPositiveDelta(t *testing.T) {
	samples := []mathkit.Sample{{T: 0, V: 0}, {T: 0, V: 5}, {T: 1000, V: 10}}
	v := mathkit.Velocity(samples)
	if len(v) != 1 {
		t.Fatalf("expected 1 velocity sample after skipping dt<=0, got %d", len(v))
	}
	if math.Abs(v[0].V-5) > 1e-9 {
		t.Errorf("velocity = %v, want 5 px/s", v[0].V)
	}
}

func TestLinearRegressionPerfectLine(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 5, 7, 9}
	reg := mathkit.FitLinearRegression(xs, ys)
	if math.Abs(reg.Slope-2) > 1e-9 {
		t.Errorf("slope = %v, want 2", reg.Slope)
	}
	if math.Abs(reg.Intercept-1) > 1e-9 {
		t.Errorf("intercept = %v, want 1", reg.Intercept)
	}
	if math.Abs(reg.RSquared-1) > 1e-6 {
		t.Errorf("R^2 = %v, want 1", reg.RSquared)
	}
}

func TestPearsonCorrelationGuardsZeroVariance(t *testing.T) {
	xs := []float64{1, 1, 1}
	ys := []float64{1, 2, 3}
	if got := mathkit.PearsonCorrelation(xs, ys); got != 0 {
		t.Errorf("PearsonCorrelation with zero-variance x = %v, want 0", got)
	}
}

func TestPSDBandPower(t *testing.T) {
	const n = 256
	const rate = 100.0
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 10 * float64(i) / rate)
	}
	psd := mathkit.ComputePSD(x, rate)
	peakFreq, _ := mathkit.PeakFrequency(psd, 1, 40)
	if math.Abs(peakFreq-10) > 1.5 {
		t.Errorf("peak frequency = %v, want ~10Hz", peakFreq)
	}
}
