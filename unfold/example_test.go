// Package unfold_test provides examples of training a response and unfolding
// a measured distribution. Each example runs via "go test -run Example".
package unfold_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/response"
	"github.com/katalvlaran/unfold/unfold"
)

// ExampleNew unfolds a smeared two-bin distribution by matrix inversion.
func ExampleNew() {
	// 1) Measured and truth templates with the same binning.
	meas, _ := hist.New1D("meas", "measured", 2, 0, 2)
	truth, _ := hist.New1D("true", "truth", 2, 0, 2)

	// 2) Train the response: 80% of bin 0 and 90% of bin 1 stay in place.
	res, _ := response.New(meas, truth, response.WithName("smear"))
	res.Fill(0.5, 0.5, 80)
	res.Fill(1.5, 0.5, 20)
	res.Fill(0.5, 1.5, 10)
	res.Fill(1.5, 1.5, 90)

	// 3) A measurement of truth (300, 100) folded through the response.
	data := meas.Clone("data")
	data.SetBinContent(1, 250)
	data.SetBinContent(2, 150)

	// 4) Build the engine through the registry and read the reconstruction.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := unfold.New(unfold.Invert, res, data, unfold.WithLogger(logger))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	reco := e.Vreco()
	fmt.Printf("%s: %.1f %.1f\n", e.Kind(), reco.AtVec(0), reco.AtVec(1))
	// Output: invert: 300.0 100.0
}

// ExampleEngine_UnfoldWithErrors propagates bin errors through a bin-by-bin
// correction.
func ExampleEngine_UnfoldWithErrors() {
	meas, _ := hist.New1D("meas", "measured", 2, 0, 2)
	truth, _ := hist.New1D("true", "truth", 2, 0, 2)
	res, _ := response.New(meas, truth)
	res.Fill(0.5, 0.5, 50)
	res.Miss(0.5, 50)
	res.Fill(1.5, 1.5, 100)

	data := meas.Clone("data")
	hist.FromVector(data, []float64{100, 400}, false)

	e := unfold.NewEngine(unfold.NewBinByBin(), unfold.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	e.Setup(res, data)
	if !e.UnfoldWithErrors(unfold.Errors) {
		fmt.Println("unfold failed")
		return
	}
	reco, errs := e.Vreco(), e.ErecoV(unfold.Errors)
	for i := 0; i < reco.Len(); i++ {
		fmt.Printf("bin %d: %.0f ± %.0f\n", i+1, reco.AtVec(i), errs.AtVec(i))
	}
	// Output:
	// bin 1: 200 ± 20
	// bin 2: 400 ± 20
}
