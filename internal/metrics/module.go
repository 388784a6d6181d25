package metrics

import "go.uber.org/fx"

// Module provides the process wide metrics recorder.
var Module = fx.Provide(New)
