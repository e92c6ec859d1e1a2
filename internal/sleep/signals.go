package sleep

import "context"

// VitalsProvider supplies the current physiological sample on demand.
type VitalsProvider interface {
	CurrentVitals(ctx context.Context) (Vitals, error)
}

// EnvironmentProvider supplies the current ambient sample on demand.
type EnvironmentProvider interface {
	CurrentEnvironment(ctx context.Context) (Environment, error)
}
