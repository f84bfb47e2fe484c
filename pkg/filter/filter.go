// Package filter holds the small slice of a pipeline runtime this module
// needs: the node contract a filter implements and a ticker-driven host
// that schedules it.
package filter

import "github.com/kamrankamilli/govsink/pkg/queue"

// Filter is a node in a media pipeline with two input ports and no
// outputs. The host calls Init once, Process once per scheduling tick,
// and Uninit once when tearing the node down.
type Filter interface {
	Init() error
	Process(in0, in1 *queue.Port)
	Uninit()
}

// Desc is the static description of a filter.
type Desc struct {
	Name     string
	Text     string
	NInputs  int
	NOutputs int
}
