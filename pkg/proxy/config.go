package proxy

import (
	"github.com/cuemby/lola/pkg/binding"
	"github.com/cuemby/lola/pkg/shmarena"
)

// Config is passed to Subscribe/SubscribeField. Tracing hooks are not
// configured here: they are wired once, event-wide, at Offer time
// (pkg/skeleton's Config.Hooks) and fire for every attached proxy.
type Config struct {
	// MaxSamples is the subscribe(k) budget request of spec §4.7.
	MaxSamples uint32
	// Quality selects which half of a mixed-criticality deployment to
	// attach to. ASIL readers are unaffected by QM-side disconnection
	// (spec §4.4.3).
	Quality shmarena.QualityType
}

// attacher is implemented by whatever already holds the shared Event this
// proxy attaches to — in this module, *binding.LoLaSkeletonBinding
// exposes Event() for exactly this purpose, modeling the in-process
// "two views of the same already-mapped region" story pkg/binding's
// package doc describes.
type attacher interface {
	Event() *binding.Event
}
