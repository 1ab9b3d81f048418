package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
)

type jsonFrame struct {
	Period int       `json:"period"`
	Month  string    `json:"month"`
	Total  int       `json:"total"`
	Low    float64   `json:"low"`
	High   float64   `json:"high"`
	Cells  []CellRow `json:"cells"`
}

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: writerOrStdout(w)}
}

func (f *JSONFormatter) Format(frames []*frame.Frame) error {
	out := make([]jsonFrame, 0, len(frames))
	for _, fr := range frames {
		out = append(out, jsonFrame{
			Period: int(fr.Period),
			Month:  fr.Period.String(),
			Total:  fr.Total(),
			Low:    fr.Colors.Low,
			High:   fr.Colors.High,
			Cells:  Rows(fr),
		})
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
