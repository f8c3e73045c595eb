package auth

// DenyReason says why a gate refused a request.
type DenyReason int

const (
	// DenyNone accompanies an allowed decision.
	DenyNone DenyReason = iota
	// DenyUnauthenticated: no identity. Recovered by sending the client to login.
	DenyUnauthenticated
	// DenyForbidden: authenticated but lacking rights. Recovered by sending
	// the client to the landing page.
	DenyForbidden
)

// Decision is the outcome of a gate.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

var allow = Decision{Allowed: true}

// Gate decides whether an identity (nil when anonymous) may proceed.
type Gate func(id *Identity) Decision

// CheckLogin allows any authenticated identity.
func CheckLogin(id *Identity) Decision {
	if id == nil {
		return Decision{Reason: DenyUnauthenticated}
	}
	return allow
}

// CheckAdmin allows authenticated administrators. It performs the login
// check itself, so it never depends on CheckLogin having run first.
func CheckAdmin(id *Identity) Decision {
	if d := CheckLogin(id); !d.Allowed {
		return d
	}
	if !id.IsAdmin {
		return Decision{Reason: DenyForbidden}
	}
	return allow
}
