package toolbox

import (
	"strings"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// productionTools returns the tools that process a folder of files,
// selected by wildcards, on several cores.
func productionTools() []*Tool {
	return []*Tool{
		las2demPro(),
		las2isoPro(),
		las2lasProProject(),
		las2txtPro(),
		lasboundaryPro(),
		lascanopyPro(),
		lascontrolPro(),
		lasgridPro(),
		lasheightProClassify(),
		lasinfoPro(),
		lassplitPro(),
		lasviewPro(),
	}
}

// folderInputs are the leading parameters of every production tool.
func folderInputs() []Param {
	return []Param{
		Folder("input_folder", "wildcards"),
		Wildcards("wildcards"),
	}
}

// trailer is the cores and additional options tail of every production
// tool.
func trailer() []Param {
	return []Param{
		Cores("cores"),
		Extra("additional_options"),
	}
}

func las2demPro() *Tool {
	return &Tool{
		Name:    "las2demPro",
		Exe:     "las2dem",
		Summary: "Rasterize a folder of LiDAR files",
		Params: build(
			folderInputs(),
			demParams(),
			rasterOutputs(false),
			trailer(),
		),
	}
}

func las2isoPro() *Tool {
	return &Tool{
		Name:    "las2isoPro",
		Exe:     "las2iso",
		Summary: "Extract contours from a folder of LiDAR files",
		Params: build(
			folderInputs(),
			isoParams("ground points only"),
			rasterOutputs(false),
			trailer(),
		),
	}
}

// projection emits the source or target projection of las2lasPro_project.
// prefix is "" for the source and "target_" for the target. The four
// dialog slots are the projection type, UTM zone, northern hemisphere and
// state plane.
func projection(name, prefix string, nad83, nad27 string) Param {
	zone, north, plane := name+"_zone", name+"_north", name+"_state_plane"
	what := "no "
	if prefix != "" {
		what = "no target "
	}

	return Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
		switch v.Get(name) {
		case model.Unset:
			return nil, nil
		case "UTM":
			if !v.IsSet(zone) {
				return nil, model.ArgumentError("ERROR: %sUTM zone specified", what)
			}
			hemisphere := "K"
			if v.IsTrue(north) {
				hemisphere = "N"
			}
			return model.Flags("-"+prefix+"utm", v.Get(zone)+hemisphere), nil
		case "Longitude Latitude":
			return model.Flags("-" + prefix + "longlat"), nil
		case nad83:
			if !v.IsSet(plane) {
				return nil, model.ArgumentError("ERROR: %sstate plane 83 specified", what)
			}
			return model.Flags("-"+prefix+"sp83", v.Get(plane)), nil
		case nad27:
			if !v.IsSet(plane) {
				return nil, model.ArgumentError("ERROR: %sstate plane 27 specified", what)
			}
			return model.Flags("-"+prefix+"sp27", v.Get(plane)), nil
		}
		if prefix != "" {
			return nil, model.ArgumentError("ERROR: no target projection specified")
		}
		return nil, nil
	}).Describe("UTM, Longitude Latitude or State Plane")
}

func projectionSlots(name, prefix, nad83, nad27 string) []Param {
	return []Param{
		projection(name, prefix, nad83, nad27),
		Companion(name+"_zone", model.Unset).Describe("UTM zone number"),
		Companion(name+"_north", "true").Describe("northern hemisphere"),
		Companion(name+"_state_plane", model.Unset).Describe("state plane code"),
	}
}

// las2lasProProject reproduces the dialog's slot wiring: -target_feet
// follows the target state plane slot and -target_elevation_feet follows
// the target_feet slot, so target_elevation_feet itself is never read.
// TODO: confirm the intended slot order with the toolbox owner before
// shifting target_feet and target_elevation_feet by one.
func las2lasProProject() *Tool {
	return &Tool{
		Name:    "las2lasPro_project",
		Exe:     "las2las",
		Summary: "Re-project a folder of LiDAR files",
		Params: build(
			folderInputs(),
			projectionSlots("source", "", "State Plane NAD83", "State Plane NAD27"),
			one(
				Switch("feet", "-feet"),
				Switch("elevation_feet", "-elevation_feet"),
			),
			projectionSlots("target", "target_", "State Plane NAD 83", "State Plane NAD 27"),
			one(
				Companion("target_feet", "false"),
				Companion("target_elevation_feet", "false"),
				Custom("output_format", model.Unset, func(v model.Values) ([]model.Token, error) {
					var tokens []model.Token
					if v.IsTrue("target_state_plane") {
						tokens = append(tokens, model.Flag("-target_feet"))
					}
					if v.IsTrue("target_feet") {
						tokens = append(tokens, model.Flag("-target_elevation_feet"))
					}
					return append(tokens, model.Flags(pointFormats[v.Get("output_format")]...)...), nil
				}).Describe("output point format"),
				OutputDir("output_dir"),
				OutputAppendix("output_appendix"),
			),
			trailer(),
		),
	}
}

func las2txtPro() *Tool {
	return &Tool{
		Name:    "las2txtPro",
		Exe:     "las2txt",
		Summary: "Convert a folder of LiDAR files into ASCII text",
		Params: build(
			folderInputs(),
			parseString(),
			one(OutputDir("output_dir"), OutputAppendix("output_appendix")),
			trailer(),
		),
	}
}

func lasboundaryPro() *Tool {
	return &Tool{
		Name:    "lasboundaryPro",
		Exe:     "lasboundary",
		Summary: "Compute boundary polygons of a folder of LiDAR files",
		Params: build(
			folderInputs(),
			one(
				Switch("merged", "-merged"),
				Custom("concavity", "50", func(v model.Values) ([]model.Token, error) {
					concavity := v.Get("concavity")
					var tokens []model.Token
					if !isDefault(concavity, "50") {
						tokens = model.Flags("-concavity", model.NormalizeDecimal(concavity))
					}
					if v.IsTrue("thin_with_grid") {
						if concavity == model.Unset {
							concavity = "50"
						}
						grid, err := model.ScaleDecimal(concavity, 0.25)
						if err != nil {
							return nil, model.ArgumentError("parameter concavity: %q is not a number", concavity)
						}
						tokens = append(tokens, model.Flags("-thin_with_grid", grid)...)
					}
					return tokens, nil
				}).AsNumber().Describe("concavity of the boundary"),
				Companion("thin_with_grid", "false").Describe("thin with a grid of a quarter of the concavity"),
				Choice("filter", model.Unset, boundaryFilter),
				Switch("disjoint", "-disjoint"),
				Switch("holes", "-holes"),
			),
			rasterOutputs(true),
			trailer(),
		),
	}
}

// canopyProducts emits the semicolon separated product list of
// lascanopy. A product quoted with single quotes carries its own
// arguments, e.g. 'p 5 10 25'.
func canopyProducts(name string) Param {
	return Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
		if !v.IsSet(name) {
			return nil, nil
		}
		var tokens []model.Token
		for _, product := range strings.Split(v.Get(name), ";") {
			product = strings.TrimSpace(product)
			if product == "" {
				continue
			}
			if strings.HasPrefix(product, "'") {
				parts := strings.Fields(strings.Trim(product, "'"))
				if len(parts) == 0 {
					continue
				}
				tokens = append(tokens, model.Flag("-"+parts[0]))
				tokens = append(tokens, model.Flags(parts[1:]...)...)
				continue
			}
			tokens = append(tokens, model.Flag("-"+product))
		}
		return tokens, nil
	}).Describe("semicolon separated canopy products")
}

// breaks emits a flag followed by the break values when there are at
// least two of them.
func breaks(name, flag string) Param {
	return Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
		values := strings.Fields(v.Get(name))
		if len(values) < 2 {
			return nil, nil
		}
		tokens := model.Flags(flag)
		for _, value := range values {
			tokens = append(tokens, model.Flag(model.NormalizeDecimal(value)))
		}
		return tokens, nil
	})
}

func lascanopyPro() *Tool {
	return &Tool{
		Name:    "lascanopyPro",
		Exe:     "lascanopy",
		Summary: "Compute forestry metrics of a folder of height-normalized LiDAR files",
		Params: build(
			folderInputs(),
			one(
				Switch("merged", "-merged"),
				Decimal("step", "-step", "20"),
				Decimal("height_cutoff", "-height_cutoff", "1.37"),
				canopyProducts("products"),
				breaks("counts", "-c").Describe("height breaks of the count rasters"),
				breaks("densities", "-d").Describe("height breaks of the density rasters"),
				Switch("use_bb", "-use_bb"),
				Switch("use_orig_bb", "-use_orig_bb"),
				Switch("use_tile_bb", "-use_tile_bb"),
			),
			rasterOutputs(true),
			trailer(),
		),
	}
}

// lascontrolPro reproduces the dialog's slot wiring: -parse is gated on
// the merged slot, -skip on the control point file slot and -feet on the
// parse slot, each followed by the value of its own slot.
// TODO: confirm the intended gating with the toolbox owner; the
// conditions most likely meant to test the slot that is emitted.
func lascontrolPro() *Tool {
	return &Tool{
		Name:    "lascontrolPro",
		Exe:     "lascontrol",
		Summary: "Check the elevation of a folder of LiDAR files against control points",
		Params: build(
			folderInputs(),
			one(
				Switch("merged", "-merged"),
				QuotedValue("control_points", "-cp").Require().Describe("control point file"),
				Custom("parse", "xyz", func(v model.Values) ([]model.Token, error) {
					if v.Get("merged") == "xyz" {
						return nil, nil
					}
					return model.Flags("-parse", v.Get("parse")), nil
				}).Describe("parse string of the control point file"),
				Custom("skip", "0", func(v model.Values) ([]model.Token, error) {
					if v.Get("control_points") == "0" {
						return nil, nil
					}
					return model.Flags("-skip", v.Get("skip")), nil
				}).Describe("lines to skip in the control point file"),
				Custom("feet", "false", func(v model.Values) ([]model.Token, error) {
					if !v.IsTrue("parse") {
						return nil, nil
					}
					return model.Flags("-feet", v.Get("feet")), nil
				}),
				Choice("filter", model.Unset, map[string][]string{
					"only ground points":   {"-keep_class", "2"},
					"ground and keypoints": {"-keep_class", "2", "8"},
					"ground and buildings": {"-keep_class", "2", "6"},
				}),
				QuotedValue("control_points_out", "-cp_out").Describe("control point report file"),
				Extra("additional_options"),
			),
		),
	}
}

func lasgridPro() *Tool {
	return &Tool{
		Name:    "lasgridPro",
		Exe:     "lasgrid",
		Summary: "Grid a folder of LiDAR files into rasters",
		Params: build(
			folderInputs(),
			one(
				Switch("merged", "-merged"),
				Decimal("step", "-step", "1"),
				Dash("attribute", "elevation"),
				Dash("method", "lowest"),
				Number("fill", "-fill", "0"),
				Custom("color", "actual values", func(v model.Values) ([]model.Token, error) {
					switch v.Get("color") {
					case "gray ramp":
						return append(model.Flags("-gray"), minMax(v, "min", "max")...), nil
					case "false colors":
						return append(model.Flags("-false"), minMax(v, "min", "max")...), nil
					}
					return nil, nil
				}),
				Companion("min", model.Unset),
				Companion("max", model.Unset),
				Choice("filter", model.Unset, keepClassFilter("ground points only", false)),
				Switch("use_bb", "-use_bb"),
				Switch("use_tile_bb", "-use_tile_bb"),
			),
			rasterOutputs(true),
			trailer(),
		),
	}
}

// heightClassify emits a classify_below, classify_above or
// classify_between group: the target class followed by its height
// bounds.
func heightClassify(name, flag string, bounds ...string) Param {
	return Custom(name, model.Unset, func(v model.Values) ([]model.Token, error) {
		if !v.IsSet(name) {
			return nil, nil
		}
		code, err := classificationCode(name, v.Get(name))
		if err != nil {
			return nil, err
		}
		tokens := model.Flags(flag)
		for _, b := range bounds {
			tokens = append(tokens, model.Flag(v.Decimal(b)))
		}
		return append(tokens, model.Flag(code)), nil
	})
}

func lasheightProClassify() *Tool {
	params := []Param{
		Custom("ground_points", model.Unset, func(v model.Values) ([]model.Token, error) {
			if v.IsSet("ground_points") {
				return []model.Token{model.Flag("-ground_points"), model.Path(v.Get("ground_points"))}, nil
			}
			if !v.IsSet("ground_class") {
				return nil, nil
			}
			code, err := classificationCode("ground_class", v.Get("ground_class"))
			if err != nil {
				return nil, err
			}
			if code == "2" {
				return nil, nil
			}
			return model.Flags("-class", code), nil
		}).Describe("file with ground points"),
		Companion("ground_class", "ground (2)").Describe("classification of the ground points"),
		IgnoreClass("ignore_class1"),
		IgnoreClass("ignore_class2"),
		heightClassify("below_class", "-classify_below", "below_height"),
		Companion("below_height", model.Unset).AsNumber(),
	}
	for _, i := range []string{"1", "2", "3"} {
		class, from, to := "between_class"+i, "between_from"+i, "between_to"+i
		params = append(params,
			heightClassify(class, "-classify_between", from, to),
			Companion(from, model.Unset).AsNumber(),
			Companion(to, model.Unset).AsNumber(),
		)
	}
	params = append(params,
		heightClassify("above_class", "-classify_above", "above_height"),
		Companion("above_height", model.Unset).AsNumber(),
		PointFormat("output_format", pointFormats),
		OutputDir("output_dir"),
		OutputAppendix("output_appendix"),
	)

	return &Tool{
		Name:    "lasheightPro_classify",
		Exe:     "lasheight",
		Summary: "Classify a folder of LiDAR files by height above ground",
		Params:  build(folderInputs(), params, trailer()),
	}
}

func lasinfoPro() *Tool {
	return &Tool{
		Name:    "lasinfoPro",
		Exe:     "lasinfo",
		Summary: "Report the contents of a folder of LiDAR files",
		Params: build(
			folderInputs(),
			one(
				Switch("merged", "-merged"),
				Switch("no_header", "-nh"),
				Switch("no_vlrs", "-nv"),
				Switch("no_check", "-nc"),
				Switch("no_min_max", "-nmm"),
				Switch("compute_density", "-cd"),
				Custom("progress", "false", func(v model.Values) ([]model.Token, error) {
					if !v.IsTrue("progress") {
						return nil, nil
					}
					return model.Flags("-progress", "1000000"), nil
				}),
				Switch("repair_counters", "-repair_counters"),
				Switch("repair_bb", "-repair_bb"),
				Choice("report", "stderr", map[string][]string{
					"none":       {"-quiet"},
					"stdout":     {"-stdout"},
					"*_info.txt": {"-odix", "_info", "-otxt"},
				}),
				OutputFile("output_file"),
				OutputDir("output_dir"),
				OutputAppendix("output_appendix"),
			),
			trailer(),
		),
	}
}

func lassplitPro() *Tool {
	return &Tool{
		Name:    "lassplitPro",
		Exe:     "lassplit",
		Summary: "Split a folder of LiDAR files",
		Params: build(
			folderInputs(),
			one(
				splitMode("split_mode", "split_value"),
				Companion("split_value", model.Unset).AsNumber(),
				PointFormat("output_format", pointFormats),
				OutputDir("output_dir"),
			),
			trailer(),
		),
	}
}

func lasviewPro() *Tool {
	return &Tool{
		Name:    "lasviewPro",
		Exe:     "lasview",
		Summary: "Display a folder of LiDAR files in the OpenGL viewer",
		Params: build(
			folderInputs(),
			one(Switch("files_are_flightlines", "-files_are_flightlines")),
			viewerParams(),
			one(Extra("additional_options")),
		),
	}
}
