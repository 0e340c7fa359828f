package dto

type ProbeOutput struct {
	Name        string
	Version     string
	Model       string
	SampleX     float64
	SampleY     float64
	SampleValid bool
}

type StatusOutput struct {
	Tracking  bool
	Delivered int
}
