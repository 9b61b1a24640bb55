// SPDX-License-Identifier: MIT

package response

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
)

// Response is a trained detector response: the measured, truth and fake
// training distributions plus the nm×nt matrix of matched event weights.
type Response struct {
	name     string
	title    string
	overflow bool

	mes *hist.Hist // measured training distribution (matched + fakes)
	tru *hist.Hist // truth training distribution (matched + misses)
	fak *hist.Hist // fakes only
	res *mat.Dense // res(j,i): weight of truth bin i measured in bin j

	nm, nt int        // logical bin counts, overflow included when tracked
	mres   *mat.Dense // cached Mresponse, nil when stale
}

// New creates an empty response shaped like the measured and truth templates.
// The templates are cloned and reset; the caller keeps ownership of them.
func New(measured, truth *hist.Hist, opts ...Option) (*Response, error) {
	if measured == nil || truth == nil {
		return nil, responseErrorf("New", ErrNilHist)
	}
	o := options{overflow: DefaultOverflow, name: "response", title: truth.Title()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.overflow && (measured.Dim() > 1 || truth.Dim() > 1) {
		return nil, responseErrorf("New", ErrOverflowDimension)
	}

	r := &Response{
		name:     o.name,
		title:    o.title,
		overflow: o.overflow,
		mes:      measured.Clone(o.name + "_measured"),
		tru:      truth.Clone(o.name + "_truth"),
		fak:      measured.Clone(o.name + "_fakes"),
	}
	r.mes.Reset()
	r.tru.Reset()
	r.fak.Reset()
	r.nm = hist.NumBins(r.mes, r.overflow)
	r.nt = hist.NumBins(r.tru, r.overflow)
	r.res = mat.NewDense(r.nm, r.nt, nil)

	return r, nil
}

// Name returns the response name.
func (r *Response) Name() string { return r.name }

// Title returns the response title.
func (r *Response) Title() string { return r.title }

// UseOverflow reports whether under/overflow bins are part of the logical range.
func (r *Response) UseOverflow() bool { return r.overflow }

// NumMeasuredBins returns the number of in-range measured bins. Callers that
// track overflow add the two outer bins themselves.
func (r *Response) NumMeasuredBins() int { return hist.NumBins(r.mes, false) }

// NumTruthBins returns the number of in-range truth bins.
func (r *Response) NumTruthBins() int { return hist.NumBins(r.tru, false) }

// Hmeasured returns the measured training distribution. Do not modify it.
func (r *Response) Hmeasured() *hist.Hist { return r.mes }

// Htruth returns the truth training distribution. Do not modify it.
func (r *Response) Htruth() *hist.Hist { return r.tru }

// Hfakes returns the distribution of fake events. Do not modify it.
func (r *Response) Hfakes() *hist.Hist { return r.fak }

// Fill records a matched event measured at xm with truth xt (1D histograms).
// Events outside the logical range still enter the training distributions.
func (r *Response) Fill(xm, xt, w float64) {
	jm := r.mes.Fill(xm, w)
	jt := r.tru.Fill(xt, w)
	r.addMatched(jm, jt, w)
}

// FillBins records a matched event by logical measured and truth indices,
// which works for histograms of any dimension.
func (r *Response) FillBins(im, it int, w float64) error {
	if im < 0 || im >= r.nm || it < 0 || it >= r.nt {
		return responseErrorf("FillBins", ErrBinRange)
	}
	jm := hist.GetBin(r.mes, im, r.overflow)
	jt := hist.GetBin(r.tru, it, r.overflow)
	r.mes.AddBinContent(jm, w)
	r.tru.AddBinContent(jt, w)
	r.addMatched(jm, jt, w)

	return nil
}

// Miss records a truth event that was not reconstructed.
func (r *Response) Miss(xt, w float64) {
	r.tru.Fill(xt, w)
	r.mres = nil
}

// Fake records a reconstructed event without truth counterpart.
func (r *Response) Fake(xm, w float64) {
	r.mes.Fill(xm, w)
	r.fak.Fill(xm, w)
}

func (r *Response) addMatched(jm, jt int, w float64) {
	im := hist.LogicalIndex(r.mes, jm, r.overflow)
	it := hist.LogicalIndex(r.tru, jt, r.overflow)
	if im >= 0 && it >= 0 {
		r.res.Set(im, it, r.res.At(im, it)+w)
	}
	r.mres = nil
}

// Mresponse returns the nm×nt probability matrix res(j,i)/truth(i).
// Truth bins with zero content give a zero column. The result is cached
// until the next training fill; callers must not modify it.
func (r *Response) Mresponse() *mat.Dense {
	if r.mres != nil {
		return r.mres
	}
	truth := r.Vtruth()
	m := mat.NewDense(r.nm, r.nt, nil)
	var i, j int
	for i = 0; i < r.nt; i++ {
		if truth[i] == 0 {
			continue
		}
		for j = 0; j < r.nm; j++ {
			m.Set(j, i, r.res.At(j, i)/truth[i])
		}
	}
	r.mres = m

	return m
}

// Vmeasured returns the measured training distribution as a logical vector.
func (r *Response) Vmeasured() []float64 { return hist.Vector(r.mes, r.nm, r.overflow) }

// Vtruth returns the truth training distribution as a logical vector.
func (r *Response) Vtruth() []float64 { return hist.Vector(r.tru, r.nt, r.overflow) }

// Vfakes returns the fake distribution as a logical vector.
func (r *Response) Vfakes() []float64 { return hist.Vector(r.fak, r.nm, r.overflow) }

// ApplyToTruth folds a truth-shaped distribution through the response,
// returning M·t plus the trained fakes in a measured-shaped histogram.
func (r *Response) ApplyToTruth(truth *hist.Hist) (*hist.Hist, error) {
	if truth == nil {
		return nil, responseErrorf("ApplyToTruth", ErrNilHist)
	}
	t := mat.NewVecDense(r.nt, hist.Vector(truth, r.nt, r.overflow))
	folded := mat.NewVecDense(r.nm, nil)
	folded.MulVec(r.Mresponse(), t)
	fakes := r.Vfakes()
	out := make([]float64, r.nm)
	for j := range out {
		out[j] = folded.AtVec(j) + fakes[j]
	}

	h := r.mes.Clone(truth.Name() + "_refold")
	hist.FromVector(h, out, r.overflow)

	return h, nil
}
