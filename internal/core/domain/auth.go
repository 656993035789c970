package domain

// Claims is the subset of an upstream-issued bearer JWT the HTTP boundary
// needs: which user is making the request. There is no login surface in
// this system — tokens are issued by whatever upstream identity provider
// sits in front of it, and ParseToken only verifies and extracts.
type Claims struct {
	UserID    string
	IssuedAt  int64
	ExpiresAt int64
}
