package boost

import (
	"fmt"
	"runtime"
	"sync"

	"go-ml.dev/pkg/zorros"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
)

/*
Grid is the curated candidate list evaluated by Tune. It is a fixed
enumeration, not a Cartesian product; regularization weights stay at
their defaults across all candidates.
*/
func Grid() []Config {
	shapes := []struct {
		depth int
		lr    float64
		trees int
	}{
		{3, 0.10, 100},
		{3, 0.05, 300},
		{4, 0.10, 150},
		{4, 0.05, 300},
		{5, 0.10, 200},
		{5, 0.05, 300},
		{6, 0.10, 150},
		{6, 0.05, 200},
	}
	grid := make([]Config, len(shapes))
	for i, s := range shapes {
		c := DefaultConfig()
		c.MaxDepth = s.depth
		c.LearningRate = s.lr
		c.Trees = s.trees
		grid[i] = c
	}
	return grid
}

/*
Tune fits every candidate on the training rows and scores it by MSE on
the validation rows, returning the winning configuration and the full
score list. Candidates fan out over a bounded worker pool; scores land
in a slice indexed by candidate position and the winner is the
lowest-index strict minimum, so the result is identical to a sequential
loop. A failing candidate fit is a defect in the grid and propagates.
*/
func Tune(x [][]float64, y []float64, trainRows, valRows []int, grid []Config, workers int, verbose func(string)) (Config, []float64, error) {
	if len(grid) == 0 {
		return Config{}, nil, zorros.Errorf("tune: empty candidate grid")
	}
	if len(trainRows) == 0 || len(valRows) == 0 {
		return Config{}, nil, zorros.Errorf("tune: empty split (%d train rows, %d validation rows)", len(trainRows), len(valRows))
	}
	xt, yt := subset(x, y, trainRows)
	xv, yv := subset(x, y, valRows)

	workers = fu.Fnzi(workers, runtime.NumCPU())
	workers = fu.Mini(workers, len(grid))
	scores := make([]float64, len(grid))
	errs := make([]error, len(grid))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				m, err := Fit(xt, yt, grid[i])
				if err != nil {
					errs[i] = err
					continue
				}
				scores[i] = fu.Mse(m.PredictAll(xv), yv)
				if verbose != nil {
					c := grid[i]
					verbose(fmt.Sprintf("[%2d] depth=%d lr=%.2f trees=%3d sub=%.1f col=%.1f mse=%.4f",
						i, c.MaxDepth, c.LearningRate, c.Trees, c.Subsample, c.ColSample, scores[i]))
				}
			}
		}()
	}
	for i := range grid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return Config{}, nil, zorros.Wrapf(err, "tune: candidate %d failed: %v", i, err.Error())
		}
	}
	best := fu.Indmind(scores)
	return grid[best], scores, nil
}

func subset(x [][]float64, y []float64, rows []int) ([][]float64, []float64) {
	xs := make([][]float64, len(rows))
	ys := make([]float64, len(rows))
	for k, i := range rows {
		xs[k] = x[i]
		ys[k] = y[i]
	}
	return xs, ys
}
