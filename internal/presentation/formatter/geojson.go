package formatter

import (
	"io"

	geojson "github.com/paulmach/go.geojson"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
)

// FeatureCollection converts frames to GeoJSON. Polygons are emitted in
// longitude/latitude as GeoJSON requires.
func FeatureCollection(frames ...*frame.Frame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range frames {
		for i, cell := range f.Cells {
			ring := f.Rings[i]
			coords := make([][]float64, len(ring))
			for j, v := range ring {
				coords[j] = []float64{v.Lon, v.Lat}
			}

			feature := geojson.NewPolygonFeature([][][]float64{coords})
			feature.ID = cell
			feature.SetProperty("h3", cell)
			feature.SetProperty("period", int(f.Period))
			feature.SetProperty("month", f.Period.String())
			feature.SetProperty("count", f.Counts[i])
			feature.SetProperty("color", f.ColorAt(i))
			fc.AddFeature(feature)
		}
	}
	return fc
}

type GeoJSONFormatter struct {
	w io.Writer
}

func NewGeoJSONFormatter(w io.Writer) *GeoJSONFormatter {
	return &GeoJSONFormatter{w: writerOrStdout(w)}
}

func (f *GeoJSONFormatter) Format(frames []*frame.Frame) error {
	data, err := FeatureCollection(frames...).MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
