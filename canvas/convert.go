package canvas

import (
	"fmt"
	"os"
	"time"
)

// ConvertFile converts inputFile to outputFile, choosing both formats by
// extension. The output file is created only once the input has been fully
// decoded, and removed again if encoding fails.
func (c *Canvas) ConvertFile(inputFile, outputFile string) error {
	inFormat, err := FormatFromPath(inputFile)
	if err != nil {
		return err
	}
	outFormat, err := FormatFromPath(outputFile)
	if err != nil {
		return err
	}
	if !outFormat.Encodable() {
		return fmt.Errorf("%w: cannot encode %s", ErrFormat, outFormat)
	}
	e, err := c.build()
	if err != nil {
		return err
	}
	start := time.Now()

	in, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	g, err := c.decode(e, in, inFormat)
	in.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", inputFile, err)
	}
	e.log.Debugf("%s: %d frames x %d bins", inputFile, g.Frames(), g.Bins())

	if err := c.applyFilters(e, g); err != nil {
		return err
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	if err := c.encode(e, out, g, outFormat); err != nil {
		out.Close()
		os.Remove(outputFile)
		return fmt.Errorf("%s: %w", outputFile, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputFile)
		return err
	}

	e.log.Infof("converted %s (%s) to %s (%s): %d frames in %v",
		inputFile, inFormat, outputFile, outFormat, g.Frames(), time.Since(start).Round(time.Millisecond))
	return nil
}
