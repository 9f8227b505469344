package domain

// RegistrationStatus is the result of checking the agent identity registry
// for one account. When the registry is not deployed on the active network,
// RegistryAvailable is false and borrowing is unrestricted.
type RegistrationStatus struct {
	RegistryAvailable bool   `json:"registryAvailable"`
	IsRegistered      bool   `json:"isRegistered"`
	Handle            string `json:"handle,omitempty"`
}
