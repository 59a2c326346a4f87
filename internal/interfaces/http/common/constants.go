package common

const (
	// MaxShopImageCount represents the number of images one shop can register.
	MaxShopImageCount = 10
	// MaxRequestBody limits JSON request bodies for shop/review endpoints.
	MaxRequestBody = 1 << 20
)
