// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"laptudirm.com/x/ybw/games/connect4"
	"laptudirm.com/x/ybw/pkg/search"
)

// runExportChart searches connect4's starting position to depth and
// renders an HTML line chart of nodes explored per completed iteration,
// the same charts/opts idiom the teacher's tuner uses for its loss curve.
func runExportChart(depth int, outPath string) error {
	driver, err := search.New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, search.DefaultOptions())
	if err != nil {
		return err
	}
	driver.SetMaxDepth(depth)

	var depths []string
	var nodeData []opts.LineData
	driver.OnIteration = func(r search.Report[connect4.Move]) {
		depths = append(depths, fmt.Sprintf("%d", r.Depth))
		nodeData = append(nodeData, opts.LineData{Value: r.Nodes})
	}

	if _, ok := driver.ChooseMove(connect4.New()); !ok {
		return fmt.Errorf("export-chart: no legal move from the starting position")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "nodes explored per depth"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "depth"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "nodes"}),
	)
	line.SetXAxis(depths).AddSeries("nodes", nodeData)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}
