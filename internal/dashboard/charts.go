package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderCharts writes the full charts page for a snapshot.
func RenderCharts(w io.Writer, snap *Snapshot) error {
	page := components.NewPage()
	page.PageTitle = "Bookscape Charts"
	page.AddCharts(
		priceHistogram(snap),
		ratingBar(snap),
		categoryBar(snap),
	)
	return page.Render(w)
}

func priceHistogram(snap *Snapshot) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Price Distribution",
			Subtitle: fmt.Sprintf("%d books", snap.TotalBooks),
		}),
	)

	data := make([]opts.BarData, len(snap.PriceBuckets))
	for i, count := range snap.PriceBuckets {
		data[i] = opts.BarData{Value: count}
	}

	bar.SetXAxis(snap.PriceLabels).AddSeries("Books", data)
	return bar
}

func ratingBar(snap *Snapshot) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Rating Distribution"}),
	)

	labels := make([]string, len(snap.RatingCounts))
	data := make([]opts.BarData, len(snap.RatingCounts))
	for i, count := range snap.RatingCounts {
		labels[i] = fmt.Sprintf("%d star", i+1)
		data[i] = opts.BarData{Value: count}
	}

	bar.SetXAxis(labels).AddSeries("Books", data)
	return bar
}

func categoryBar(snap *Snapshot) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Top Categories",
			Subtitle: fmt.Sprintf("largest %d of %d", len(snap.TopCategories), snap.CategoryCount),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 45},
		}),
	)

	labels := make([]string, len(snap.TopCategories))
	data := make([]opts.BarData, len(snap.TopCategories))
	for i, cat := range snap.TopCategories {
		labels[i] = cat.Category
		data[i] = opts.BarData{Value: cat.Count}
	}

	bar.SetXAxis(labels).AddSeries("Books", data)
	return bar
}
