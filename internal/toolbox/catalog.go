package toolbox

import (
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// singleTools returns the tools that process one input file per run.
func singleTools() []*Tool {
	return []*Tool{
		las2dem(),
		las2iso(),
		las2lasTransform(),
		las2shp(),
		las2tin(),
		las2txt(),
		lasclassify(),
		lasclip(),
		lasdiff(),
		lasduplicate(),
		lasground(),
		lasindex(),
		lasmerge(),
		lasnoise(),
		lasoverlap(),
		lasprecision(),
		lassplit(),
		lastile(),
		lasview(),
		laszip(),
		txt2las(),
	}
}

// rasterOutputs are the trailing output parameters shared by the raster
// and vector producing tools.
func rasterOutputs(withFile bool) []Param {
	var params []Param
	params = append(params, RasterFormat("output_format"))
	if withFile {
		params = append(params, OutputFile("output_file"))
	}
	return append(params,
		OutputDir("output_dir"),
		OutputAppendix("output_appendix"),
	)
}

// pointOutputs are the trailing output parameters of the point-cloud
// producing tools.
func pointOutputs(table map[string][]string) []Param {
	return []Param{
		PointFormat("output_format", table),
		OutputFile("output_file"),
		OutputDir("output_dir"),
		OutputAppendix("output_appendix"),
	}
}

// build concatenates parameter groups into a schema.
func build(groups ...[]Param) Schema {
	var s Schema
	for _, g := range groups {
		s = append(s, g...)
	}
	return s
}

// one wraps single parameters for build.
func one(params ...Param) []Param {
	return params
}

// rasterProduct emits the las2dem and lasgrid coloring of the raster:
// a hillshade with its light vector, or a gray ramp / false color ramp
// optionally clamped with -set_min_max.
func rasterProduct(name, def, direction, timeOfDay, min, max string) Param {
	return Custom(name, def, func(v model.Values) ([]model.Token, error) {
		switch v.Get(name) {
		case "hillshade":
			tokens := model.Flags("-hillshade")
			return append(tokens, lightVector(v.Get(direction), v.Get(timeOfDay))...), nil
		case "gray ramp":
			return append(model.Flags("-gray"), minMax(v, min, max)...), nil
		case "false colors":
			return append(model.Flags("-false"), minMax(v, min, max)...), nil
		}
		return nil, nil
	}).Describe("raster product (actual values, hillshade, gray ramp, false colors)")
}

// lightVector returns "-light x y z" unless the light comes from the
// default north east at 1 pm. Unknown labels fall back to the south west
// direction and a low evening sun.
func lightVector(direction, timeOfDay string) []model.Token {
	if direction == model.Unset {
		direction = defaultLightDirection
	}
	if timeOfDay == model.Unset {
		timeOfDay = defaultLightTime
	}
	if direction == defaultLightDirection && timeOfDay == defaultLightTime {
		return nil
	}

	xy, ok := lightDirections[direction]
	if !ok {
		xy = []string{"-1", "-1"}
	}
	z, ok := lightTimes[timeOfDay]
	if !ok {
		z = "0.1"
	}
	return model.Flags("-light", xy[0], xy[1], z)
}

// minMax emits -set_min_max when both bounds are set.
func minMax(v model.Values, min, max string) []model.Token {
	if !v.IsSet(min) || !v.IsSet(max) {
		return nil
	}
	return model.Flags("-set_min_max", v.Decimal(min), v.Decimal(max))
}

func demParams() []Param {
	return []Param{
		Decimal("step", "-step", "1").Describe("raster step size"),
		Decimal("kill", "-kill", "100").Describe("maximal triangle edge length"),
		Choice("attribute", "elevation", map[string][]string{
			"slope":     {"-slope"},
			"intensity": {"-intensity"},
			"rgb":       {"-rgb"},
		}).Describe("rasterized attribute"),
		rasterProduct("product", "actual values", "light_direction", "light_time", "min", "max"),
		Companion("light_direction", defaultLightDirection).Describe("hillshade light direction"),
		Companion("light_time", defaultLightTime).Describe("hillshade time of day"),
		Companion("min", model.Unset).Describe("lower bound of the color ramp"),
		Companion("max", model.Unset).Describe("upper bound of the color ramp"),
		Choice("filter", model.Unset, keepClassFilter("ground points only", true)).Describe("points to rasterize"),
		Switch("use_tile_bb", "-use_tile_bb").Describe("restrict to tile bounding box"),
		QuotedValue("lakes", "-lakes").Describe("shapefile of lake break lines"),
		QuotedValue("creeks", "-creeks").Describe("shapefile of creek break lines"),
	}
}

func las2dem() *Tool {
	return &Tool{
		Name:    "las2dem",
		Exe:     "las2dem",
		Summary: "Rasterize a LiDAR file into an elevation, slope, intensity or RGB grid",
		Params: build(
			one(Input("input_file")),
			demParams(),
			rasterOutputs(true),
			one(Extra("additional_options")),
		),
	}
}

// contourMode emits the iso-line selection of las2iso.
func contourMode(name, value string) Param {
	const number = "a number of x equally spaced contours"
	return Custom(name, number, func(v model.Values) ([]model.Token, error) {
		x := v.Get(value)
		switch v.Get(name) {
		case "a contour every x elevation units":
			return model.Flags("-iso_every", model.NormalizeDecimal(x)), nil
		case "the contour with the iso-value x":
			return model.Flags("-iso_value", model.NormalizeDecimal(x)), nil
		case number:
			if isDefault(x, "10") {
				return nil, nil
			}
			return model.Flags("-iso_number", model.NormalizeDecimal(x)), nil
		}
		return nil, nil
	}).Describe("how the contour value is interpreted")
}

func isoParams(filterLabel string) []Param {
	return []Param{
		Decimal("concavity", "-concavity", "50"),
		Choice("filter", model.Unset, keepClassFilter(filterLabel, true)),
		contourMode("contour_mode", "contour_value"),
		Companion("contour_value", "10").AsNumber().Describe("number, interval or iso-value of the contours"),
		Value("smooth", "-smooth", "do not smooth"),
		Value("simplify", "-simplify", "do not simplify"),
		Value("clean", "-clean", "do not clean"),
		QuotedValue("lakes", "-lakes"),
		QuotedValue("creeks", "-creeks"),
	}
}

func las2iso() *Tool {
	return &Tool{
		Name:    "las2iso",
		Exe:     "las2iso",
		Summary: "Extract elevation contours from a LiDAR file",
		Params: build(
			one(Input("input_file")),
			isoParams("only ground points"),
			rasterOutputs(true),
			one(Extra("additional_options")),
		),
	}
}

// operation emits "-<op> <value>" of the las2las transform dialog when
// both the operation and its operand are set.
func operation(name, value string) Param {
	return Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
		if !v.IsSet(name) || !v.IsSet(value) {
			return nil, nil
		}
		return model.Flags("-"+v.Get(name), v.Decimal(value)), nil
	})
}

func las2lasTransform() *Tool {
	params := []Param{Input("input_file")}
	for _, i := range []string{"1", "2", "3"} {
		params = append(params,
			operation("operation"+i, "value"+i),
			Companion("value"+i, model.Unset),
		)
	}
	params = append(params, Custom("operation4", model.Unset, func(v model.Values) ([]model.Token, error) {
		if !v.IsSet("operation4") {
			return nil, nil
		}
		return model.Flags("-" + v.Decimal("operation4")), nil
	}))

	return &Tool{
		Name:    "las2las_transform",
		Exe:     "las2las",
		Summary: "Translate, scale, clamp or re-project point coordinates",
		Params: build(
			params,
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func las2shp() *Tool {
	return &Tool{
		Name:    "las2shp",
		Exe:     "las2shp",
		Summary: "Convert a LiDAR file into an ESRI shapefile",
		Params: build(
			one(Input("input_file"),
				Custom("shape_type", "MultiPointZ", func(v model.Values) ([]model.Token, error) {
					if v.Get("shape_type") == "PointZ" {
						return model.Flags("-single_points"), nil
					}
					if isDefault(v.Get("record_size"), "1024") {
						return nil, nil
					}
					return model.Flags("-record_size", v.Decimal("record_size")), nil
				}).Describe("PointZ or MultiPointZ"),
				Companion("record_size", "1024").AsNumber().Describe("points per MultiPointZ record"),
			),
			one(OutputFile("output_file"), OutputDir("output_dir"), OutputAppendix("output_appendix")),
			one(Extra("additional_options")),
		),
	}
}

func las2tin() *Tool {
	return &Tool{
		Name:    "las2tin",
		Exe:     "las2tin",
		Summary: "Triangulate a LiDAR file into a TIN",
		Params: build(
			one(Input("input_file"),
				Decimal("concavity", "-concavity", "50"),
				Choice("filter", model.Unset, keepClassFilter("ground points only", true)),
				QuotedValue("lakes", "-lakes"),
				QuotedValue("creeks", "-creeks"),
			),
			rasterOutputs(true),
			one(Extra("additional_options")),
		),
	}
}

// parseString composes the -parse string of las2txt from the base
// string and the optional attribute checkboxes, followed by the extra
// attribute index.
func parseString() []Param {
	emit := func(v model.Values) ([]model.Token, error) {
		parse := v.Get("parse")
		if parse == model.Unset {
			parse = "xyz"
		}
		for _, a := range []struct{ name, code string }{
			{"scan_angle", "a"},
			{"user_data", "u"},
			{"point_source_id", "p"},
			{"rgb", "RGB"},
		} {
			if v.IsTrue(a.name) {
				parse += a.code
			}
		}
		var tokens []model.Token
		if v.IsSet("extra_attribute") {
			parse += "E"
		}
		if parse != "xyz" {
			tokens = append(tokens, model.Flags("-parse", parse)...)
		}
		if v.IsSet("extra_attribute") {
			tokens = append(tokens, model.Flags("-extra", v.Get("extra_attribute"))...)
		}
		return tokens, nil
	}
	return []Param{
		Custom("parse", "xyz", emit).Describe("parse string of the output columns"),
		Companion("scan_angle", "false"),
		Companion("user_data", "false"),
		Companion("point_source_id", "false"),
		Companion("rgb", "false"),
		Companion("extra_attribute", model.Unset).Describe("index of an extra bytes attribute"),
		Value("separator", "-sep", "space"),
	}
}

func las2txt() *Tool {
	return &Tool{
		Name:    "las2txt",
		Exe:     "las2txt",
		Summary: "Convert a LiDAR file into ASCII text",
		Params: build(
			one(Input("input_file")),
			parseString(),
			one(OutputFile("output_file"), OutputDir("output_dir"), OutputAppendix("output_appendix")),
			one(Extra("additional_options")),
		),
	}
}

func lasclassify() *Tool {
	return &Tool{
		Name:    "lasclassify",
		Exe:     "lasclassify",
		Summary: "Classify buildings and high vegetation above ground",
		Params: build(
			one(Input("input_file"),
				Switch("feet", "-feet"),
				Switch("elevation_feet", "-elevation_feet"),
				Decimal("planar", "-planar", "0.1"),
				Decimal("rugged", "-rugged", "0.4"),
				Decimal("ground_offset", "-ground_offset", "2"),
				Custom("gutters", "true", func(v model.Values) ([]model.Token, error) {
					if v.IsFalse("gutters") {
						return model.Flags("-no_gutters"), nil
					}
					if v.IsTrue("wide_gutters") {
						return model.Flags("-wide_gutters"), nil
					}
					return nil, nil
				}),
				Companion("wide_gutters", "false"),
				Unless("small_buildings", "-small_buildings"),
				Unless("overhang", "-keep_overhang"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func lasclip() *Tool {
	return &Tool{
		Name:    "lasclip",
		Exe:     "lasclip",
		Summary: "Clip points against polygons of a shapefile",
		Params: build(
			one(Input("input_file"),
				QuotedValue("polygons", "-poly").Require().Describe("shapefile with clipping polygons"),
				Switch("interior", "-interior"),
				Custom("classify", "false", func(v model.Values) ([]model.Token, error) {
					if !v.IsTrue("classify") {
						return nil, nil
					}
					return model.Flags("-classify", v.Decimal("class")), nil
				}).Describe("classify instead of clip"),
				Companion("class", "12").AsNumber().Describe("classification code of the points inside"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func lasdiff() *Tool {
	return &Tool{
		Name:    "lasdiff",
		Exe:     "lasdiff",
		Summary: "Compare two LiDAR files point by point",
		Params: Params(
			Input("input_file"),
			OptionalInput("other_file"),
			Number("random_seeks", "-random_seeks", "0"),
			Extra("additional_options"),
		),
	}
}

func lasduplicate() *Tool {
	return &Tool{
		Name:    "lasduplicate",
		Exe:     "lasduplicate",
		Summary: "Remove duplicate points",
		Params: build(
			one(Input("input_file"),
				Choice("mode", "xy", map[string][]string{
					"lowest_z":   {"-lowest_z"},
					"unique_xyz": {"-unique_xyz"},
				}),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func lasground() *Tool {
	return &Tool{
		Name:    "lasground",
		Exe:     "lasground",
		Summary: "Classify points into ground and non-ground",
		Params: build(
			one(Input("input_file"),
				Unless("airborne", "-not_airborne"),
				Switch("feet", "-feet"),
				Switch("elevation_feet", "-elevation_feet"),
				Choice("terrain", "towns or flats", groundTerrain).Describe("terrain type"),
				Choice("granularity", "coarse", groundGranularity),
				IgnoreClass("ignore_class1"),
				IgnoreClass("ignore_class2"),
				Switch("compute_height", "-compute_height"),
				Switch("replace_z", "-replace_z"),
			),
			pointOutputs(classifiedFormats),
			one(Extra("additional_options")),
		),
	}
}

func lasindex() *Tool {
	return &Tool{
		Name:    "lasindex",
		Exe:     "lasindex",
		Summary: "Create a spatial index (*.lax) for a LiDAR file",
		Params: Params(
			Input("input_file"),
			Choice("mode", "airborne", map[string][]string{
				"mobile":      {"-tile_size", "10", "-maximum", "-100"},
				"terrestrial": {"-tile_size", "4", "-maximum", "-100"},
			}),
			Extra("additional_options"),
		),
	}
}

func lasmerge() *Tool {
	params := []Param{
		Input("file1"),
		Custom("file2", model.Unset, func(v model.Values) ([]model.Token, error) {
			return []model.Token{model.Path(v.Get("file2"))}, nil
		}).Require(),
	}
	for _, i := range []string{"3", "4", "5", "6", "7", "8", "9"} {
		name := "file" + i
		params = append(params, Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
			if !v.IsSet(name) {
				return nil, nil
			}
			return []model.Token{model.Path(v.Get(name))}, nil
		}))
	}
	params = append(params,
		OutputFile("output_file").Require(),
		Extra("additional_options"),
	)

	return &Tool{
		Name:    "lasmerge",
		Exe:     "lasmerge",
		Summary: "Merge up to nine LiDAR files into one",
		Params:  params,
	}
}

func lasnoise() *Tool {
	return &Tool{
		Name:    "lasnoise",
		Exe:     "lasnoise",
		Summary: "Remove or classify isolated noise points",
		Params: build(
			one(Input("input_file"),
				Switch("feet", "-feet"),
				Switch("elevation_feet", "-elevation_feet"),
				Number("isolated", "-isolated", "5"),
				Decimal("step_xy", "-step_xy", "4"),
				Decimal("step_z", "-step_z", "4"),
				Choice("operation", "classify as 7", map[string][]string{
					"remove points":  {"-remove_noise"},
					"classify as 10": {"-classify_as", "10"},
					"classify as 18": {"-classify_as", "18"},
				}),
				IgnoreClass("ignore_class1"),
				IgnoreClass("ignore_class2"),
				IgnoreClass("ignore_class3"),
				IgnoreClass("ignore_class4"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func lasoverlap() *Tool {
	return &Tool{
		Name:    "lasoverlap",
		Exe:     "lasoverlap",
		Summary: "Check overlap and vertical alignment of flightlines",
		Params: build(
			one(Input("input_file"),
				Decimal("step", "-step", "2"),
				Dash("elevation", "elevation").Describe("attribute to compare"),
				Dash("lowest", "lowest").Describe("operation per cell"),
				Number("fill", "-fill", "0"),
				Choice("values", "false colors", map[string][]string{
					"actual values": {"-values"},
				}),
				Unless("over", "-no_over"),
				Number("max_over", "-max_over", "5"),
				Unless("diff", "-no_diff"),
				Decimal("max_diff", "-max_diff", "0.5"),
				Choice("filter", model.Unset, keepClassFilter("ground points only", false)),
				Switch("use_bb", "-use_bb"),
				Switch("use_tile_bb", "-use_tile_bb"),
			),
			rasterOutputs(true),
			one(Extra("additional_options")),
		),
	}
}

// lasprecision reads its rescale_z slot twice: once as the z scale and
// once as the output point format. The dialog shares the slot, so the
// command line carries both.
// TODO: confirm with the toolbox owner whether rescale_z should be
// followed by its own output format slot.
func lasprecision() *Tool {
	return &Tool{
		Name:    "lasprecision",
		Exe:     "lasprecision",
		Summary: "Analyse or change the coordinate resolution of a LiDAR file",
		Params: Params(
			Input("input_file"),
			Companion("rescale", "false").Describe("rescale the coordinates"),
			Companion("rescale_x", model.Unset),
			Companion("rescale_y", model.Unset),
			Custom("rescale_z", model.Unset, func(v model.Values) ([]model.Token, error) {
				var tokens []model.Token
				if v.IsTrue("rescale") && v.IsSet("rescale_x") && v.IsSet("rescale_y") && v.IsSet("rescale_z") {
					tokens = model.Flags("-rescale", v.Decimal("rescale_x"), v.Decimal("rescale_y"), v.Decimal("rescale_z"))
				}
				return append(tokens, model.Flags(pointFormats[v.Get("rescale_z")]...)...), nil
			}),
			OutputFile("output_file"),
			OutputDir("output_dir"),
			OutputAppendix("output_appendix"),
			Extra("additional_options"),
		),
	}
}

// splitMode emits the lassplit mode and its interval or chunk size.
func splitMode(name, value string) Param {
	return Custom(name, "split by flightline", func(v model.Values) ([]model.Token, error) {
		mode, ok := splitModes[v.Get(name)]
		if !ok {
			return nil, nil
		}
		if !mode.takesSize || !v.IsSet(value) {
			return model.Flags(mode.flag), nil
		}
		return model.Flags(mode.flag, v.Decimal(value)), nil
	}).Describe("how the file is split")
}

func lassplit() *Tool {
	return &Tool{
		Name:    "lassplit",
		Exe:     "lassplit",
		Summary: "Split a LiDAR file by flightline, classification, interval or size",
		Params: Params(
			Input("input_file"),
			splitMode("split_mode", "split_value"),
			Companion("split_value", model.Unset).AsNumber(),
			PointFormat("output_format", pointFormats),
			OutputFile("output_file"),
			OutputDir("output_dir"),
			Extra("additional_options"),
		),
	}
}

func lastile() *Tool {
	return &Tool{
		Name:    "lastile",
		Exe:     "lastile",
		Summary: "Tile a LiDAR file into square tiles",
		Params: build(
			one(Input("input_file"),
				Decimal("tile_size", "-tile_size", "1000"),
				Decimal("buffer", "-buffer", "0"),
				Switch("extra_pass", "-extra_pass"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

// viewerParams are shared by lasview and lasviewPro.
func viewerParams() []Param {
	return []Param{
		Number("points", "-points", "5000000").Describe("maximal number of points loaded"),
		Choice("which", "all", viewSelections),
		Choice("color", "default", viewColorings),
		QuotedValue("control_points", "-cp"),
		Value("cp_parse", "-cp_parse", model.Unset),
	}
}

func lasview() *Tool {
	return &Tool{
		Name:    "lasview",
		Exe:     "lasview",
		Summary: "Display a LiDAR file in the OpenGL viewer",
		Params: build(
			one(Input("input_file")),
			viewerParams(),
			one(Extra("additional_options")),
		),
	}
}

func laszip() *Tool {
	return &Tool{
		Name:    "laszip",
		Exe:     "laszip",
		Summary: "Compress LAS to LAZ or decompress LAZ to LAS",
		Params: build(
			one(Input("input_file"),
				Switch("report_size", "-size"),
				Switch("waveforms", "-waveforms"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}

func txt2las() *Tool {
	return &Tool{
		Name:    "txt2las",
		Exe:     "txt2las",
		Summary: "Convert ASCII text into LAS or LAZ",
		Params: build(
			one(Input("input_file"),
				Value("parse", "-parse", "xyz"),
				Number("skip", "-skip", "0"),
				Value("set_version", "-set_version", "1.2"),
			),
			pointOutputs(pointFormats),
			one(Extra("additional_options")),
		),
	}
}
