package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// ExifMeta holds the camera fields the gallery viewer shows per image.
type ExifMeta struct {
	CameraModel string `json:"camera_model"`
	TakenAt     string `json:"taken_at"`
	Aperture    string `json:"aperture"`
	Shutter     string `json:"shutter"`
	ISO         string `json:"iso"`
}

// ExtractExif pulls camera make/model, capture time, aperture, shutter
// and ISO from an image stream. Best effort: images without EXIF yield
// empty metadata, never an error.
func ExtractExif(r io.Reader) ExifMeta {
	var meta ExifMeta

	x, err := exif.Decode(r)
	if err != nil {
		return meta
	}

	meta.CameraModel = strings.TrimSpace(tagString(x, exif.Make) + " " + tagString(x, exif.Model))

	if t, err := x.DateTime(); err == nil {
		meta.TakenAt = t.Format("2006-01-02 15:04:05")
	}

	if tag, err := x.Get(exif.FNumber); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && den != 0 {
			meta.Aperture = fmt.Sprintf("f/%.1f", float64(num)/float64(den))
		}
	}

	if tag, err := x.Get(exif.ExposureTime); err == nil {
		if num, den, err := tag.Rat2(0); err == nil && num != 0 && den != 0 {
			if num == 1 {
				meta.Shutter = fmt.Sprintf("1/%d", den)
			} else {
				meta.Shutter = fmt.Sprintf("%d/%d", num, den)
			}
		}
	}

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if v, err := tag.Int(0); err == nil {
			meta.ISO = strconv.Itoa(v)
		}
	}

	return meta
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}
