package malformed

type Service struct{}

// @inject
func (s *Service) Build() *Service {
	return s
}

// @binds
func BindTwice(a *Service, b *Service) any {
	return a
}

// @provides module=db graph=AppGraph
func ProvideOwned() *Service {
	return &Service{}
}

// @provides into=list
func ProvideListed() *Service {
	return &Service{}
}

type Screen struct {
	title string `inject:""`
}

// @graph.creator
type NewService func() *Service

// @provides
func ProvideGeneric[T any]() *T {
	return new(T)
}
