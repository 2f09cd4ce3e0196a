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
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"laptudirm.com/x/ybw/games/connect4"
	"laptudirm.com/x/ybw/pkg/search"
	"laptudirm.com/x/ybw/pkg/search/parallel"
)

// runWatch drives the parallel YBW driver against connect4's starting
// position and renders a live terminal dashboard off the driver's
// OnIteration Report callback.
func runWatch(depth int) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer ui.Close()

	panel := widgets.NewParagraph()
	panel.Title = "ybw search (connect4, YBW driver)"
	panel.SetRect(0, 0, 70, 9)
	panel.Text = "starting..."
	ui.Render(panel)

	driver, err := parallel.New[*connect4.Position, connect4.Move](connect4.Game{}, connect4.Heuristic{}, parallel.DefaultOptions())
	if err != nil {
		return err
	}
	driver.SetMaxDepth(depth)
	driver.OnIteration = func(r search.Report[connect4.Move]) {
		panel.Text = fmt.Sprintf(
			"depth %d\neval %d\nelapsed %s\npv: %v\n\npress q to quit",
			r.Depth, r.Value, r.Elapsed.Round(time.Millisecond), r.PV,
		)
		ui.Render(panel)
	}

	done := make(chan struct{})
	go func() {
		driver.ChooseMove(connect4.New())
		close(done)
	}()

	events := ui.PollEvents()
	for {
		select {
		case e := <-events:
			if e.ID == "q" || e.ID == "<C-c>" {
				return nil
			}
		case <-done:
			done = nil // avoid re-triggering this case; keep waiting on events
		}
	}
}
