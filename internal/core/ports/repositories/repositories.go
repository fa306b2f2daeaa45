package repositories

// RepositoryProvider bundles the repositories handed to the service layer.
type RepositoryProvider struct {
	MemberRepo MemberRepositoryWithTx
}
