package router

// Module describes a feature module that registers its routes on the Registry
type Module interface {
	Register(reg *Registry) error
}
