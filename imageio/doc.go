// Package imageio maps between images and canvas grids.
//
// Each column of an image is one time frame and each row one frequency bin,
// with the highest frequency in the top row by default. The red channel holds
// the left amplitude and blue the right; green is written as zero and ignored
// when reading. Images of any height are resampled onto the grid's bins.
//
// PNG, BMP, TIFF, GIF and JPEG can be read; PNG, BMP and TIFF can be written.
package imageio
