// Package preprocess provides the image loader and role view recipes.
//
// Every transform is a Stage: a function from an image to a new image. Stages
// never write to their input, so one decoded source can feed all role recipes
// at once.
//
// Recipes:
//   - general:    gray, scale, normalise, binarise
//   - arrows:     gray, scale, normalise, binarise
//   - diagrams:   rgb, scale, normalise
//   - labels:     gray, sharpen, super-resolution guard
//   - conditions: gray, scale
package preprocess
