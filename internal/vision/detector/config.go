package detector

// Config contains object detection server settings.
// An empty URL disables detection.
type Config struct {
	URL        string  `env:"DETECTOR_URL"`
	ModelPath  string  `env:"YOLO_MODEL_PATH"     envDefault:"yolo11n.pt"`
	ImageSize  int     `env:"DETECTOR_IMAGE_SIZE" envDefault:"640"`
	Confidence float64 `env:"DETECTOR_CONFIDENCE" envDefault:"0.25"`
	Timeout    int     `env:"DETECTOR_TIMEOUT"    envDefault:"60"`
}
