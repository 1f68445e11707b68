package tmdb

// Placeholder artwork served when TMDB has no image ("Görsel Yok" on a dark card).
const (
	PlaceholderPoster   = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iNTAwIiBoZWlnaHQ9Ijc1MCIgeG1sbnM9Imh0dHA6Ly93d3cudzMub3JnLzIwMDAvc3ZnIj48cmVjdCB3aWR0aD0iNTAwIiBoZWlnaHQ9Ijc1MCIgZmlsbD0iIzFhMWExYSIvPjx0ZXh0IHg9IjUwJSIgeT0iNTAlIiBmb250LWZhbWlseT0iQXJpYWwiIGZvbnQtc2l6ZT0iMjQiIGZpbGw9IiM2YjZiNmIiIHRleHQtYW5jaG9yPSJtaWRkbGUiIGR5PSIuM2VtIj5Hw7ZyZWwgWW9rPC90ZXh0Pjwvc3ZnPg=="
	PlaceholderBackdrop = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTkyMCIgaGVpZ2h0PSIxMDgwIiB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciPjxyZWN0IHdpZHRoPSIxOTIwIiBoZWlnaHQ9IjEwODAiIGZpbGw9IiMxYTFhMWEiLz48dGV4dCB4PSI1MCUiIHk9IjUwJSIgZm9udC1mYW1pbHk9IkFyaWFsIiBmb250LXNpemU9IjQ4IiBmaWxsPSIjNmI2YjZiIiB0ZXh0LWFuY2hvcj0ibWlkZGxlIiBkeT0iLjNlbSI+R8O2cnNlbCBZb2s8L3RleHQ+PC9zdmc+"
)

const (
	DefaultPosterSize       = "w500"
	DefaultBackdropSize     = "w1280"
	DefaultProfileSize      = "w185"
	DefaultProviderLogoSize = "w45"
)

func (c *Client) imageURL(path, size, fallback string) string {
	if path == "" {
		return fallback
	}
	return c.imageBase + "/" + size + path
}

// PosterURL builds a poster URL, or the placeholder poster when path is empty.
func (c *Client) PosterURL(path, size string) string {
	if size == "" {
		size = DefaultPosterSize
	}
	return c.imageURL(path, size, PlaceholderPoster)
}

func (c *Client) BackdropURL(path, size string) string {
	if size == "" {
		size = DefaultBackdropSize
	}
	return c.imageURL(path, size, PlaceholderBackdrop)
}

// ProfileURL falls back to the poster placeholder, as person cards share its aspect ratio.
func (c *Client) ProfileURL(path, size string) string {
	if size == "" {
		size = DefaultProfileSize
	}
	return c.imageURL(path, size, PlaceholderPoster)
}

// ProviderLogoURL returns "" when the provider has no logo.
func (c *Client) ProviderLogoURL(path, size string) string {
	if size == "" {
		size = DefaultProviderLogoSize
	}
	return c.imageURL(path, size, "")
}
