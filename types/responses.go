package types

type SaveResponse struct {
	Success bool   `json:"success"`
	Date    string `json:"date"`
}

type DummyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Generated int    `json:"generated"`
}

type ImportResponse struct {
	Success  bool `json:"success"`
	Imported int  `json:"imported"`
	Skipped  int  `json:"skipped"`
}
