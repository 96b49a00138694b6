// Package charts renders aggregate trial tables as static PNG charts.
package charts

import (
	"os"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/trialscope/trialscope/pkg/constants"
	"github.com/trialscope/trialscope/pkg/errors"
	"github.com/trialscope/trialscope/pkg/trials"
)

func values(buckets []trials.KeyCount) ([]string, []float64) {
	labels := make([]string, 0, len(buckets))
	counts := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, b.Key)
		counts = append(counts, float64(b.Count))
	}
	return labels, counts
}

// Bar writes a vertical bar chart of the buckets to path.
func Bar(path, title string, buckets []trials.KeyCount) error {
	labels, counts := values(buckets)
	p, err := charts.BarRender(
		[][]float64{counts},
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(constants.ChartWidth),
		charts.HeightOptionFunc(constants.ChartHeight),
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
	)
	if err != nil {
		return errors.WrapIO("render", path, err)
	}
	return save(p, path)
}

// HorizontalBar writes a horizontal bar chart, the layout used for long
// sponsor names.
func HorizontalBar(path, title string, buckets []trials.KeyCount) error {
	// Horizontal bars draw bottom-up; reverse so the largest bucket ends
	// up on top.
	reversed := make([]trials.KeyCount, len(buckets))
	for i, b := range buckets {
		reversed[len(buckets)-1-i] = b
	}
	labels, counts := values(reversed)

	p, err := charts.HorizontalBarRender(
		[][]float64{counts},
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(constants.ChartWidth),
		charts.HeightOptionFunc(constants.ChartHeight),
		charts.TitleTextOptionFunc(title),
		charts.YAxisDataOptionFunc(labels),
	)
	if err != nil {
		return errors.WrapIO("render", path, err)
	}
	return save(p, path)
}

// Pie writes a pie chart of the buckets, used for sponsor-class shares.
func Pie(path, title string, buckets []trials.KeyCount) error {
	labels, counts := values(buckets)
	p, err := charts.PieRender(
		counts,
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(constants.ChartWidth),
		charts.HeightOptionFunc(constants.ChartHeight),
		charts.TitleTextOptionFunc(title),
		charts.LegendLabelsOptionFunc(labels),
		charts.PieSeriesShowLabel(),
	)
	if err != nil {
		return errors.WrapIO("render", path, err)
	}
	return save(p, path)
}

// Line writes a line chart of the buckets, used for trials per year.
func Line(path, title string, buckets []trials.KeyCount) error {
	labels, counts := values(buckets)
	p, err := charts.LineRender(
		[][]float64{counts},
		charts.PNGTypeOption(),
		charts.WidthOptionFunc(constants.ChartWidth),
		charts.HeightOptionFunc(constants.ChartHeight),
		charts.TitleTextOptionFunc(title),
		charts.XAxisDataOptionFunc(labels),
	)
	if err != nil {
		return errors.WrapIO("render", path, err)
	}
	return save(p, path)
}

func save(p *charts.Painter, path string) error {
	buf, err := p.Bytes()
	if err != nil {
		return errors.WrapIO("render", path, err)
	}
	if err := os.WriteFile(path, buf, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
