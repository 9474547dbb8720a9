package domain

import (
	"image"
	"path/filepath"
	"strings"
)

// ImageFormat is the decoded container format of a source image.
type ImageFormat string

// Supported image formats.
const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
)

// supportedExtensions is the fixed extension allow-list.
var supportedExtensions = map[string]ImageFormat{
	".png":  FormatPNG,
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".gif":  FormatGIF,
}

// FormatForPath returns the image format implied by the file extension.
// Matching is case-insensitive. The boolean is false for anything outside
// the allow-list.
func FormatForPath(path string) (ImageFormat, bool) {
	f, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// IsSupportedImage returns true if the path has an allow-listed extension.
func IsSupportedImage(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}

// SupportedExtensions returns the allow-listed extensions without dots.
func SupportedExtensions() []string {
	return []string{"png", "jpg", "jpeg", "gif"}
}

// SourceImage identifies a scheme image on disk.
// It is read once per extraction and never modified.
type SourceImage struct {
	// Path is the file path as given by the caller.
	Path string

	// Format is the decoded container format.
	Format ImageFormat

	// Width and Height are the original pixel dimensions.
	Width  int
	Height int

	// Digest is the hex BLAKE3-256 of the raw file bytes.
	Digest string
}

// Stem returns the base file name without its extension.
func (s SourceImage) Stem() string {
	return Stem(s.Path)
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Role names the downstream consumer a view is tuned for.
type Role string

// Available view roles.
const (
	RoleGeneral    Role = "general"
	RoleArrows     Role = "arrows"
	RoleDiagrams   Role = "diagrams"
	RoleLabels     Role = "labels"
	RoleConditions Role = "conditions"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	switch r {
	case RoleGeneral, RoleArrows, RoleDiagrams, RoleLabels, RoleConditions:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// AllRoles returns every view role.
func AllRoles() []Role {
	return []Role{RoleGeneral, RoleArrows, RoleDiagrams, RoleLabels, RoleConditions}
}

// View is an image rendition tuned for one role.
// Views are values: transforms produce new images instead of editing pixels
// in place, so a View may be shared freely once created.
type View struct {
	Role   Role
	Source SourceImage
	Image  image.Image
}

// NewView creates a view for role from img.
func NewView(role Role, src SourceImage, img image.Image) View {
	return View{Role: role, Source: src, Image: img}
}

// IsZero returns true if the view holds no image.
func (v View) IsZero() bool {
	return v.Image == nil
}

// Width returns the view width in pixels.
func (v View) Width() int {
	if v.Image == nil {
		return 0
	}
	return v.Image.Bounds().Dx()
}

// Height returns the view height in pixels.
func (v View) Height() int {
	if v.Image == nil {
		return 0
	}
	return v.Image.Bounds().Dy()
}
