package ssim

// Config contains structural similarity settings.
type Config struct {
	// ImageSize is the side of the square grayscale canvas both images are resized to.
	ImageSize int `env:"SSIM_IMAGE_SIZE" envDefault:"512"`

	// MaxPixels caps the declared width x height of an upload before it is decoded.
	MaxPixels int64 `env:"SSIM_MAX_PIXELS" envDefault:"67108864"`
}
