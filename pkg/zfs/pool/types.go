package pool

// Pool describes a storage pool and its activation state
type Pool struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ActivateConfig names the pool to mark active
type ActivateConfig struct {
	Name string `json:"name" binding:"required"`
}
