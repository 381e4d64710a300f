package responses

// ProviderResponse One registered automation provider.
type ProviderResponse struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Kind        string   `json:"kind"`
	Flags       []string `json:"flags"`
}
