package dataset

import (
	"math/rand"

	"github.com/YuminosukeSato/goml-tutorials/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// digitGlyphs are 8x8 stroke templates for the digits 0..9.
// ' ' is background, '.' a faint stroke, '#' a strong stroke.
var digitGlyphs = [10][8]string{
	{
		" .####. ",
		".#    #.",
		"#      #",
		"#      #",
		"#      #",
		"#      #",
		".#    #.",
		" .####. ",
	},
	{
		"   ##   ",
		"  ###   ",
		" #.##   ",
		"   ##   ",
		"   ##   ",
		"   ##   ",
		"   ##   ",
		" ###### ",
	},
	{
		" .####. ",
		"##    ##",
		"      ##",
		"     ## ",
		"   ##.  ",
		"  ##    ",
		" ##     ",
		"########",
	},
	{
		" #####. ",
		"     ## ",
		"    ##  ",
		"  ###.  ",
		"     ## ",
		"      ##",
		"#.   ## ",
		".#####  ",
	},
	{
		"    ##  ",
		"   ###  ",
		"  #.##  ",
		" #  ##  ",
		"#   ##  ",
		"########",
		"    ##  ",
		"    ##  ",
	},
	{
		"####### ",
		"##      ",
		"##      ",
		"######. ",
		"      ##",
		"      ##",
		"#    ## ",
		".#####  ",
	},
	{
		"  .###. ",
		" ##     ",
		"##      ",
		"######. ",
		"##    ##",
		"##    ##",
		".#    #.",
		" .####. ",
	},
	{
		"########",
		"      ##",
		"     ## ",
		"    ##  ",
		"   ##   ",
		"  ##    ",
		"  ##    ",
		"  ##    ",
	},
	{
		" .####. ",
		"##    ##",
		"##    ##",
		" .####. ",
		"##    ##",
		"##    ##",
		"##    ##",
		" .####. ",
	},
	{
		" .####. ",
		"##    ##",
		"##    ##",
		" .######",
		"      ##",
		"     ## ",
		"   ##.  ",
		" ##     ",
	},
}

// glyphIntensity maps a template character to a pixel value on the
// 0..16 scale used by 8x8 digit images.
func glyphIntensity(c byte) float64 {
	switch c {
	case '#':
		return 14
	case '.':
		return 6
	default:
		return 0
	}
}

// MakeDigits generates a synthetic handwritten digit dataset.
//
// Each sample is an 8x8 grayscale image flattened to 64 features with
// pixel values in [0, 16]. Digits are rendered from stroke templates
// with per-pixel Gaussian noise, so every sample of a class differs
// while staying recognizable. Classes 0..9 get nPerClass samples each,
// interleaved so class order carries no information.
func MakeDigits(nPerClass int, seed int64) (*Dataset, error) {
	if nPerClass <= 0 {
		return nil, errors.NewValidationError("nPerClass", "must be positive", nPerClass)
	}

	rng := rand.New(rand.NewSource(seed))
	const noiseStd = 1.8

	n := nPerClass * 10
	X := mat.NewDense(n, 64, nil)
	Y := mat.NewVecDense(n, nil)

	for i := 0; i < n; i++ {
		digit := i % 10
		glyph := digitGlyphs[digit]

		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				v := glyphIntensity(glyph[row][col]) + rng.NormFloat64()*noiseStd
				if v < 0 {
					v = 0
				} else if v > 16 {
					v = 16
				}
				X.Set(i, row*8+col, v)
			}
		}
		Y.SetVec(i, float64(digit))
	}

	featureNames := make([]string, 64)
	for i := range featureNames {
		featureNames[i] = "pixel_" + string(rune('0'+i/8)) + "_" + string(rune('0'+i%8))
	}

	return &Dataset{
		X:            X,
		Y:            Y,
		FeatureNames: featureNames,
		TargetNames:  []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
	}, nil
}
