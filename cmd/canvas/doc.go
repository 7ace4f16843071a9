// Command canvas converts images to sound and sound to images.
//
// Every image column becomes a slice of time and every row a sine
// oscillator, with the highest frequency at the top. Red drives the left
// channel and blue the right. Converting sound produces an image 239 pixels
// tall in the same layout.
//
// Usage:
//
//	canvas -t -i <input> -o <output> [-r rate] [-s speed] [options]
//
// Formats follow the file extensions. Defaults can be set with CANVAS_*
// environment variables, for example CANVAS_LOG_LEVEL=debug.
package main
