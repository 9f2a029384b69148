package cmd

import (
	"fmt"
	"sync"

	"asset-resynch/core/reconcile"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progress renders one mpb bar per engine phase.
type progress struct {
	p *mpb.Progress

	mu   sync.Mutex
	bars map[reconcile.Phase]*phaseBar
}

type phaseBar struct {
	bar     *mpb.Bar
	unknown bool
}

func newProgress(opts ...mpb.ContainerOption) *progress {
	return &progress{
		p:    mpb.New(append([]mpb.ContainerOption{mpb.WithWidth(64)}, opts...)...),
		bars: make(map[reconcile.Phase]*phaseBar),
	}
}

func (pr *progress) Start(phase reconcile.Phase, total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	appended := []decor.Decorator{decor.CountersNoUnit("(%d/%d) ")}
	if total > 0 {
		appended = append(appended, decor.NewPercentage("%d"))
	}
	appended = append(appended, decor.Spinner([]string{" /", " -", " \\", " |"}))

	bar := pr.p.AddBar(int64(total),
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name(fmt.Sprintf("%s:", phase),
				decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(appended...),
	)
	pr.bars[phase] = &phaseBar{bar: bar, unknown: total <= 0}
}

func (pr *progress) Step(phase reconcile.Phase) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pb, ok := pr.bars[phase]
	if !ok {
		return
	}
	if pb.unknown {
		// keep the bar one step ahead until the phase is done
		pb.bar.SetTotal(pb.bar.Current()+2, false)
	}
	pb.bar.Increment()
}

func (pr *progress) Done(phase reconcile.Phase) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pb, ok := pr.bars[phase]
	if !ok {
		return
	}
	// a negative total completes the bar at its current value
	pb.bar.SetTotal(-1, true)
	delete(pr.bars, phase)
}

// Wait flushes all bars.
func (pr *progress) Wait() {
	pr.p.Wait()
}
