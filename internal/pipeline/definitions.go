package pipeline

import (
	"github.com/shinji-kodama/lastools-toolbox/internal/model"
	"github.com/shinji-kodama/lastools-toolbox/internal/toolbox"
)

// Parameters shared by several pipelines. The Decimal and Cores params
// emit their own tokens; the Companion params are read by stage builders.
var (
	inputFile   = toolbox.Companion("input_file", model.Unset).Require().Describe("huge input LiDAR file")
	inputFolder = toolbox.Companion("input_folder", model.Unset).Require().Describe("folder with flightlines in LAS or LAZ format")
	tileSize    = toolbox.Decimal("tile_size", "-tile_size", "1000").Describe("tile size")
	tileBuffer  = toolbox.Decimal("buffer", "-buffer", "0").Describe("buffer around each tile")
	terrainType = toolbox.Companion("terrain_type", "towns or flats").Describe("terrain type for ground classification")
	beamWidth   = toolbox.Companion("beam_width", model.Unset).AsNumber().Describe("laser beam width (diameter of the footprint)")
	stepSize    = toolbox.Companion("step", model.Unset).Require().AsNumber().Describe("raster step size")
	cores       = toolbox.Cores("cores")
	tempDir     = toolbox.Companion("empty_temp_dir", model.Unset).Describe("empty directory for temporary files")
	outputDir   = toolbox.Companion("output_dir", model.Unset).Require().Describe("output directory")
	outputFile  = toolbox.Companion("output_file", model.Unset).Describe("output file")
	pointFormat = toolbox.Companion("output_format", model.Unset).Describe("output point format")
	baseName    = toolbox.Companion("output_base_name", "tile").Describe("base name of the temporary tiles")
)

// definitions lists every pipeline.
func definitions() []*Definition {
	return []*Definition{
		removeDuplicates(),
		sortGPSTime(),
		dtmAndDSM(),
		canopyHeightModel(),
		pitFreeCHM(),
		qualityReport(),
	}
}

// emit concatenates the tokens of params.
func emit(v model.Values, params ...toolbox.Param) ([]model.Token, error) {
	var tokens []model.Token
	for _, p := range params {
		t, err := p.Emit(v)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t...)
	}
	return tokens, nil
}

// line assembles tokens from fixed pieces and parameter emissions.
type line []model.Token

func (s *line) add(tokens ...model.Token) {
	*s = append(*s, tokens...)
}

func (s *line) flags(values ...string) {
	s.add(model.Flags(values...)...)
}

// tempFile names a temp file or glob. With an Unset temp directory the
// bare name is used and resolves against the working directory.
func tempFile(v model.Values, name string) model.Token {
	if !v.IsSet(tempDir.Name) {
		return model.Flag(name)
	}
	return model.Path(toolbox.JoinPath(v.Get(tempDir.Name), name))
}

// tempGlob is the cleanup pattern for name.
func tempGlob(name string) func(v model.Values) string {
	return func(v model.Values) string {
		return toolbox.JoinPath(v.Get(tempDir.Name), name)
	}
}

// flightlines reads every LAS and LAZ file of the input folder.
func flightlines(v model.Values) []model.Token {
	folder := v.Get(inputFolder.Name)
	return []model.Token{
		model.Flag("-i"), model.Path(toolbox.JoinPath(folder, "*.las")),
		model.Flag("-i"), model.Path(toolbox.JoinPath(folder, "*.laz")),
	}
}

// tileBase returns the base name of the temporary tiles.
func tileBase(v model.Values) string {
	if !v.IsSet(baseName.Name) {
		return baseName.Default
	}
	return v.Get(baseName.Name)
}

// pointOutput emits `-o "<file>"` and the point format, both optional.
func pointOutput(s *line, v model.Values) {
	if v.IsSet(outputFile.Name) {
		s.add(model.Flag("-o"), model.Path(v.Get(outputFile.Name)))
	}
	if v.IsSet(pointFormat.Name) {
		s.add(toolbox.PointFormatTokens(v.Get(pointFormat.Name))...)
	}
}

// withCores appends -cores unless a single core was requested.
func withCores(s line, v model.Values) ([]model.Token, error) {
	t, err := cores.Emit(v)
	if err != nil {
		return nil, err
	}
	return append(s, t...), nil
}

// duplicateModes maps the duplicate mode drop-down. "xy" is the
// lasduplicate default and needs no flag.
var duplicateModes = map[string][]string{
	"unique_xyz": {"-unique_xyz"},
	"lowest_z":   {"-lowest_z"},
}

func removeDuplicates() *Definition {
	const prefix = "temp_huge_remove_duplicates"
	mode := toolbox.Choice("mode", "xy", duplicateModes).Describe("which points count as duplicates")

	return &Definition{
		Name:    "huge_file_remove_duplicates",
		Title:   "huge_file_remove_duplicates",
		Summary: "removes xy or xyz duplicates from a huge file by tiling, deduplicating and merging back",
		Params: toolbox.Params(
			inputFile,
			tileSize,
			mode,
			cores,
			tempDir,
			outputFile,
			pointFormat,
		),
		TempDir: tempDir.Name,
		Stages: []Stage{
			{
				Name: "lastile",
				Tool: "lastile",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), model.Path(v.Get(inputFile.Name)))
					t, err := emit(v, tileSize)
					if err != nil {
						return nil, err
					}
					s.add(t...)
					s.flags("-reversible")
					if v.IsSet(tempDir.Name) {
						s.add(model.Flag("-odir"), model.Path(v.Get(tempDir.Name)))
					}
					s.flags("-o", prefix+".laz", "-olaz")
					return s, nil
				},
			},
			{
				Name: "lasduplicate",
				Tool: "lasduplicate",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), tempFile(v, prefix+"*.laz"))
					t, err := mode.Emit(v)
					if err != nil {
						return nil, err
					}
					s.add(t...)
					s.flags("-odix", "_d", "-olaz")
					return withCores(s, v)
				},
			},
			{
				Name:  "lastile (reverse)",
				Tool:  "lastile",
				Final: true,
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), tempFile(v, prefix+"*_d.laz"))
					s.flags("-reverse_tiling")
					pointOutput(&s, v)
					return s, nil
				},
			},
		},
		Cleanup: tempGlob(prefix + "*.laz"),
	}
}

func sortGPSTime() *Definition {
	const prefix = "temp_huge_sort_GPS_time"
	interval := toolbox.Companion("time_interval", model.Unset).Require().AsNumber().Describe("GPS time interval per temporary chunk")

	return &Definition{
		Name:    "huge_file_sort_GPS_time",
		Title:   "huge_file_sort_GPS_time",
		Summary: "sorts a huge file by GPS time by splitting it into time intervals and merging them in order",
		Params: toolbox.Params(
			inputFile,
			interval,
			cores,
			tempDir,
			outputFile,
			pointFormat,
		),
		TempDir: tempDir.Name,
		Stages: []Stage{
			{
				Name: "lassplit",
				Tool: "lassplit",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), model.Path(v.Get(inputFile.Name)))
					s.flags("-by_gps_time_interval", v.Decimal(interval.Name), "-digits", "8")
					if v.IsSet(tempDir.Name) {
						s.add(model.Flag("-odir"), model.Path(v.Get(tempDir.Name)))
					}
					s.flags("-o", prefix+".laz", "-olaz")
					return s, nil
				},
			},
			{
				Name: "lassort",
				Tool: "lassort",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), tempFile(v, prefix+"*.laz"))
					s.flags("-gps_time", "-odix", "_s", "-olaz")
					return withCores(s, v)
				},
			},
			{
				Name:  "lasmerge",
				Tool:  "lasmerge",
				Final: true,
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), tempFile(v, prefix+"*_s.laz"))
					pointOutput(&s, v)
					return s, nil
				},
			},
		},
		Cleanup: tempGlob(prefix + "*.laz"),
	}
}

// tileFlightlines is the first stage of the tiled flightline pipelines.
// The tiles go to the temp directory under the pipeline's base name.
func tileFlightlines(name func(v model.Values) model.Token, areFlightlines bool) Stage {
	return Stage{
		Name: "lastile",
		Tool: "lastile",
		Args: func(v model.Values) ([]model.Token, error) {
			var s line
			s.add(flightlines(v)...)
			if areFlightlines {
				s.flags("-files_are_flightlines")
			}
			t, err := emit(v, tileSize, tileBuffer)
			if err != nil {
				return nil, err
			}
			s.add(t...)
			s.add(model.Flag("-odir"), model.Path(v.Get(tempDir.Name)))
			s.add(model.Flag("-o"), name(v))
			s.flags("-olaz")
			return s, nil
		},
	}
}

// groundTiles classifies the tiles matching glob into ground and
// non-ground points, writing them with appendix _g.
func groundTiles(glob func(v model.Values) string) Stage {
	return Stage{
		Name: "lasground",
		Tool: "lasground",
		Args: func(v model.Values) ([]model.Token, error) {
			var s line
			s.add(model.Flag("-i"), model.Path(glob(v)))
			s.add(toolbox.PipelineTerrain(v.Get(terrainType.Name))...)
			s.flags("-odix", "_g", "-olaz")
			return withCores(s, v)
		},
	}
}

// heightTiles replaces z with the height above ground (appendix h).
func heightTiles(glob func(v model.Values) string) Stage {
	return Stage{
		Name: "lasheight",
		Tool: "lasheight",
		Args: func(v model.Values) ([]model.Token, error) {
			var s line
			s.add(model.Flag("-i"), model.Path(glob(v)))
			s.flags("-replace_z", "-odix", "h", "-olaz")
			return withCores(s, v)
		},
	}
}

// thinTiles keeps the highest return per cell of stepFactor times the
// raster step (appendix t). A set beam width turns each return into a
// circle of half the beam width first.
func thinTiles(glob func(v model.Values) string, stepFactor float64) Stage {
	return Stage{
		Name: "lasthin",
		Tool: "lasthin",
		Args: func(v model.Values) ([]model.Token, error) {
			var s line
			s.add(model.Flag("-i"), model.Path(glob(v)))
			thin, err := model.ScaleDecimal(v.Get(stepSize.Name), stepFactor)
			if err != nil {
				return nil, model.ArgumentError("parameter %s: %q is not a number", stepSize.Name, v.Get(stepSize.Name))
			}
			s.flags("-highest", "-step", thin)
			if v.IsSet(beamWidth.Name) {
				circle, err := model.ScaleDecimal(v.Get(beamWidth.Name), 0.5)
				if err != nil {
					return nil, model.ArgumentError("parameter %s: %q is not a number", beamWidth.Name, v.Get(beamWidth.Name))
				}
				s.flags("-subcircle", circle)
			}
			s.flags("-odix", "t", "-olaz")
			return withCores(s, v)
		},
	}
}

// baseGlob returns the temp-directory glob of the tiles named
// <base><suffix>.
func baseGlob(suffix string) func(v model.Values) string {
	return func(v model.Values) string {
		return toolbox.JoinPath(v.Get(tempDir.Name), tileBase(v)+suffix)
	}
}

func quotedBase(v model.Values) model.Token {
	return model.Path(tileBase(v) + ".laz")
}

func dtmAndDSM() *Definition {
	rasterFormat := toolbox.Companion("output_rformat", "bil").Require().Describe("output raster format")
	tileFormat := toolbox.Companion("output_pformat", "laz").Require().Describe("output point format of the ground-classified tiles")

	// raster rasterizes the ground-classified tiles. keep selects the
	// points; appendix names the product.
	raster := func(name, appendix string, keep ...string) Stage {
		return Stage{
			Name: name,
			Tool: "las2dem",
			Args: func(v model.Values) ([]model.Token, error) {
				var s line
				s.add(model.Flag("-i"), model.Path(baseGlob("*_g.laz")(v)))
				s.flags(keep...)
				s.flags("-extra_pass", "-step", v.Decimal(stepSize.Name), "-use_tile_bb")
				s.flags("-odir", v.Get(outputDir.Name), "-ocut", "2", "-odix", appendix, "-o"+v.Get(rasterFormat.Name))
				return withCores(s, v)
			},
		}
	}

	return &Definition{
		Name:    "flightlines_to_DTM_and_DSM",
		Title:   "flightlines_to_DTM_and_DSM",
		Summary: "tiles flightlines, classifies ground and rasterizes a DTM and a DSM per tile",
		Params: toolbox.Params(
			inputFolder,
			tileSize,
			tileBuffer,
			terrainType,
			stepSize,
			cores,
			tempDir,
			outputDir,
			baseName,
			rasterFormat,
			tileFormat,
		),
		TempDir:        tempDir.Name,
		RequireTempDir: true,
		Stages: []Stage{
			tileFlightlines(quotedBase, true),
			groundTiles(baseGlob("*.laz")),
			raster("las2dem (DTM)", "_dtm", "-keep_class", "2"),
			raster("las2dem (DSM)", "_dsm", "-first_only"),
			{
				Name: "lastile (remove)",
				Tool: "lastile",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), model.Path(baseGlob("*_g.laz")(v)))
					s.flags("-remove_buffer", "-odir", v.Get(outputDir.Name), "-ocut", "2", "-o"+v.Get(tileFormat.Name))
					return s, nil
				},
			},
		},
		Cleanup: baseGlob("*.laz"),
	}
}

func canopyHeightModel() *Definition {
	rasterFormat := toolbox.Companion("output_format", "bil").Require().Describe("output raster format")

	return &Definition{
		Name:    "flightlines_to_CHM",
		Title:   "raw_flightlines_to_CHM",
		Summary: "tiles flightlines and rasterizes a canopy height model per tile",
		Params: toolbox.Params(
			inputFolder,
			tileSize,
			tileBuffer,
			terrainType,
			beamWidth,
			stepSize,
			cores,
			tempDir,
			outputDir,
			baseName,
			rasterFormat,
		),
		TempDir:        tempDir.Name,
		RequireTempDir: true,
		Stages: []Stage{
			tileFlightlines(quotedBase, true),
			groundTiles(baseGlob("*.laz")),
			heightTiles(baseGlob("*_g.laz")),
			thinTiles(baseGlob("*_gh.laz"), 0.25),
			{
				Name: "las2dem (CHM)",
				Tool: "las2dem",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(model.Flag("-i"), model.Path(baseGlob("*_ght.laz")(v)))
					s.flags("-step", v.Decimal(stepSize.Name), "-use_tile_bb")
					s.flags("-odir", v.Get(outputDir.Name), "-ocut", "4", "-odix", "_chm", "-o"+v.Get(rasterFormat.Name))
					return withCores(s, v)
				},
			},
		},
		Cleanup: baseGlob("*.laz"),
	}
}

// pitFreeLayers are the height thresholds of the partial CHMs that the
// pit-free algorithm stacks. 0 is the plain CHM of all returns.
var pitFreeLayers = []string{"02", "05", "10", "15", "20"}

func pitFreeCHM() *Definition {
	const prefix = "pit_free_temp_tile"
	output := outputFile.Require().Describe("output CHM raster file")
	glob := func(suffix string) func(v model.Values) string {
		return func(v model.Values) string {
			return toolbox.JoinPath(v.Get(tempDir.Name), prefix+suffix)
		}
	}

	// layer rasterizes the thinned tiles into <prefix>*_chm<nn>.bil in
	// the temp directory, dropping returns below the threshold.
	layer := func(threshold string) Stage {
		return Stage{
			Name: "las2dem (CHM" + threshold + ")",
			Tool: "las2dem",
			Args: func(v model.Values) ([]model.Token, error) {
				var s line
				s.add(model.Flag("-i"), model.Path(glob("*_ght.laz")(v)))
				if threshold != "00" {
					s.flags("-drop_z_below", trimZero(threshold))
				}
				s.flags("-step", v.Decimal(stepSize.Name))
				if threshold != "00" {
					kill, err := model.ScaleDecimal(v.Get(stepSize.Name), 3)
					if err != nil {
						return nil, model.ArgumentError("parameter %s: %q is not a number", stepSize.Name, v.Get(stepSize.Name))
					}
					s.flags("-kill", kill)
				}
				s.flags("-use_tile_bb", "-odir", v.Get(tempDir.Name), "-ocut", "4", "-odix", "_chm"+threshold, "-obil")
				return withCores(s, v)
			},
		}
	}

	stages := []Stage{
		tileFlightlines(func(model.Values) model.Token { return model.Flag(prefix + ".laz") }, false),
		groundTiles(glob("*.laz")),
		heightTiles(glob("*_g.laz")),
		thinTiles(glob("*_gh.laz"), 0.5),
		layer("00"),
	}
	for _, threshold := range pitFreeLayers {
		stages = append(stages, layer(threshold))
	}
	stages = append(stages, Stage{
		Name: "lasgrid",
		Tool: "lasgrid",
		Args: func(v model.Values) ([]model.Token, error) {
			var s line
			s.add(model.Flag("-i"), model.Path(glob("*.bil")(v)))
			s.flags("-merged", "-highest", "-step", v.Decimal(stepSize.Name), "-o", v.Get(output.Name))
			return s, nil
		},
	})

	return &Definition{
		Name:    "flightlines_to_single_CHM_pit_free",
		Title:   "flightlines_to_single_CHM_pit_free",
		Summary: "creates one pit-free canopy height model from flightlines by stacking partial CHMs",
		Params: toolbox.Params(
			inputFolder,
			tileSize,
			tileBuffer,
			terrainType,
			beamWidth,
			stepSize,
			cores,
			tempDir,
			output,
		),
		TempDir:        tempDir.Name,
		RequireTempDir: true,
		Stages:         stages,
		Cleanup:        glob("*.*"),
	}
}

// trimZero drops the leading zero of a two-digit threshold: "05" -> "5".
func trimZero(threshold string) string {
	if len(threshold) == 2 && threshold[0] == '0' {
		return threshold[1:]
	}
	return threshold
}

func qualityReport() *Definition {
	maxDiff := toolbox.Companion("max_diff", model.Unset).Require().AsNumber().Describe("maximal elevation difference between flightlines")
	expected := toolbox.Companion("expected", model.Unset).Require().AsNumber().Describe("expected last-return density per cell")
	excessive := toolbox.Companion("excessive", model.Unset).Require().AsNumber().Describe("excessive last-return density per cell")
	validate := toolbox.Companion("output_validate", model.Unset).Require().Describe("lasvalidate report file name")
	info := toolbox.Companion("output_info", model.Unset).Require().Describe("lasinfo report file name")
	overlap := toolbox.Companion("output_overlap", model.Unset).Require().Describe("overlap raster file name")
	expectedOut := toolbox.Companion("output_expected", model.Unset).Require().Describe("expected density raster file name")
	excessiveOut := toolbox.Companion("output_excessive", model.Unset).Require().Describe("excessive density raster file name")
	boundary := toolbox.Companion("output_boundary", model.Unset).Require().Describe("boundary shapefile name")

	// into writes the product to the output directory under the file
	// name held by param.
	into := func(s *line, v model.Values, param toolbox.Param) {
		s.add(model.Flag("-odir"), model.Path(v.Get(outputDir.Name)))
		s.add(model.Flag("-o"), model.Path(v.Get(param.Name)))
	}

	density := func(name string, limit, file toolbox.Param) Stage {
		return Stage{
			Name: name,
			Tool: "lasgrid",
			Args: func(v model.Values) ([]model.Token, error) {
				var s line
				s.add(flightlines(v)...)
				s.flags("-merged", "-last_only", "-step", v.Decimal(stepSize.Name), "-counter_16bit", "-false")
				s.flags("-set_min_max", "0", v.Decimal(limit.Name))
				into(&s, v, file)
				return s, nil
			},
		}
	}

	return &Definition{
		Name:    "flightlines_quality_report",
		Title:   "flightlines_quality_check",
		Summary: "validates flightlines and reports their overlap, density and coverage",
		Params: toolbox.Params(
			inputFolder,
			stepSize,
			maxDiff,
			expected,
			excessive,
			outputDir,
			validate,
			info,
			overlap,
			expectedOut,
			excessiveOut,
			boundary,
		),
		Stages: []Stage{
			{
				Name: "lasvalidate",
				Tool: "lasvalidate",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(flightlines(v)...)
					s.add(model.Flag("-o"), model.Path(toolbox.JoinPath(v.Get(outputDir.Name), v.Get(validate.Name))))
					return s, nil
				},
			},
			{
				Name: "lasinfo",
				Tool: "lasinfo",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(flightlines(v)...)
					s.flags("-merged", "-cd")
					into(&s, v, info)
					return s, nil
				},
			},
			{
				Name: "lasoverlap",
				Tool: "lasoverlap",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(flightlines(v)...)
					s.flags("-files_are_flightlines", "-step", v.Decimal(stepSize.Name), "-max_diff", v.Decimal(maxDiff.Name))
					into(&s, v, overlap)
					return s, nil
				},
			},
			density("lasgrid (expected)", expected, expectedOut),
			density("lasgrid (excessive)", excessive, excessiveOut),
			{
				Name: "lasboundary",
				Tool: "lasboundary",
				Args: func(v model.Values) ([]model.Token, error) {
					var s line
					s.add(flightlines(v)...)
					s.flags("-merged", "-last_only", "-holes", "-disjoint")
					into(&s, v, boundary)
					return s, nil
				},
			},
		},
	}
}
