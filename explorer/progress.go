package explorer

import "sync"

const DefaultProgressFormat = "Progress... (%.0f %%)"

// progress accumulates increments and forwards them to the sink.
type progress struct {
	mu     sync.Mutex
	sink   Sink
	value  float64
	format string
}

func newProgress(sink Sink) *progress {
	return &progress{
		sink:   sink,
		format: DefaultProgressFormat,
	}
}

// show resets the value and toggles the indicator.
func (p *progress) show(visible bool) {
	p.mu.Lock()
	p.value = 0
	p.format = DefaultProgressFormat
	p.mu.Unlock()

	p.sink.SetProgress(0, DefaultProgressFormat)
	p.sink.ShowProgress(visible)
}

// set replaces the value. An empty format keeps the current one.
func (p *progress) set(value float64, format string) {
	p.mu.Lock()
	p.value = clamp(value)
	if format != "" {
		p.format = format
	}
	value, format = p.value, p.format
	p.mu.Unlock()

	p.sink.SetProgress(value, format)
}

func (p *progress) label(format string) {
	p.mu.Lock()
	p.format = format
	value := p.value
	p.mu.Unlock()

	p.sink.SetProgress(value, format)
}

func (p *progress) add(delta float64) {
	p.mu.Lock()
	p.value = clamp(p.value + delta)
	value, format := p.value, p.format
	p.mu.Unlock()

	p.sink.SetProgress(value, format)
}

func (p *progress) current() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

func clamp(value float64) float64 {
	return min(max(value, 0), 100)
}
