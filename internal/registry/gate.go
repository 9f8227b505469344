// Package registry gates borrowing on the agent identity registry and reads
// registration state.
package registry

// CanBorrow applies the borrowing policy:
//
//   - registry not deployed on this network: borrowing is unrestricted;
//   - registration check still in flight: optimistically allowed, the pool
//     itself rejects unregistered borrowers as the backstop;
//   - check resolved: allowed iff registered.
//
// The gate is open on "unknown" and closed only on "known false".
func CanBorrow(registryAvailable, isRegistered, stillChecking bool) bool {
	if !registryAvailable {
		return true
	}
	if stillChecking {
		return true
	}
	return isRegistered
}
