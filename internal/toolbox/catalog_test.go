package toolbox

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/lastools-toolbox/internal/model"
)

// dialogArgs builds the positional argument vector the dialog would pass
// for tool: every parameter at its default except those in set.
func dialogArgs(tool *Tool, set map[string]string, verbose bool) []string {
	args := make([]string, 0, tool.Params.ArgCount())
	for _, p := range tool.Params {
		v := p.Default
		if s, ok := set[p.Name]; ok {
			v = s
		}
		args = append(args, v)
	}
	if verbose {
		return append(args, "true")
	}
	return append(args, "false")
}

// buildTool parses the dialog arguments of the named tool and returns the
// process argument vector, executable first.
func buildTool(t *testing.T, name string, set map[string]string, verbose bool) []string {
	t.Helper()

	tool, ok := Lookup(name)
	require.True(t, ok, "tool %s should be registered", name)

	inv, err := tool.Parse(dialogArgs(tool, set, verbose))
	require.NoError(t, err)

	cmd, err := inv.Build(tool.Exe + ".exe")
	require.NoError(t, err)
	return cmd.Values()
}

func TestCatalog_Registered(t *testing.T) {
	names := []string{
		"las2dem", "las2iso", "las2las_transform", "las2shp", "las2tin", "las2txt",
		"lasclassify", "lasclip", "lasdiff", "lasduplicate", "lasground", "lasindex",
		"lasmerge", "lasnoise", "lasoverlap", "lasprecision", "lassplit", "lastile",
		"lasview", "laszip", "txt2las",
		"las2demPro", "las2isoPro", "las2lasPro_project", "las2txtPro", "lasboundaryPro",
		"lascanopyPro", "lascontrolPro", "lasgridPro", "lasheightPro_classify",
		"lasinfoPro", "lassplitPro", "lasviewPro",
	}
	assert.Len(t, All(), len(names))
	for _, name := range names {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}

	all := All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name, "All() is sorted")
	}
}

func TestCatalog_UniqueParamNames(t *testing.T) {
	for _, tool := range All() {
		seen := make(map[string]bool)
		for _, p := range tool.Params {
			assert.False(t, seen[p.Name], "%s: duplicate parameter %s", tool.Name, p.Name)
			seen[p.Name] = true
		}
	}
}

// TestLas2dem_AllDefaults covers a DEM run where every optional field is
// left at its default: only the input survives.
func TestLas2dem_AllDefaults(t *testing.T) {
	got := buildTool(t, "las2dem", map[string]string{
		"input_file":    `C:\data\in.laz`,
		"step":          "1",
		"attribute":     "elevation",
		"output_format": model.Unset,
		"output_file":   model.Unset,
	}, false)

	assert.Equal(t, []string{"las2dem.exe", "-i", `C:\data\in.laz`}, got)
	for _, flag := range []string{"-step", "-slope", "-intensity", "-rgb", "-o", "-v"} {
		assert.NotContains(t, got, flag)
	}
}

func TestLas2dem_DecimalComma(t *testing.T) {
	got := buildTool(t, "las2dem", map[string]string{
		"input_file": "in.laz",
		"step":       "1,5",
		"kill":       "12,25",
	}, false)

	assert.Equal(t, []string{"las2dem.exe", "-i", "in.laz", "-step", "1.5", "-kill", "12.25"}, got)
	assert.NotContains(t, got, "1,5")
}

func TestLas2dem_VerboseFirst(t *testing.T) {
	got := buildTool(t, "las2dem", map[string]string{"input_file": "in.laz"}, true)
	assert.Equal(t, []string{"las2dem.exe", "-v", "-i", "in.laz"}, got)
}

func TestLas2dem_Products(t *testing.T) {
	got := buildTool(t, "las2dem", map[string]string{
		"input_file":      "in.laz",
		"attribute":       "slope",
		"product":         "hillshade",
		"light_direction": "west",
		"light_time":      "3 pm",
		"filter":          "ground and buildings",
		"use_tile_bb":     "true",
		"output_format":   "tif",
		"output_dir":      "out",
	}, false)

	assert.Equal(t, []string{
		"las2dem.exe", "-i", "in.laz", "-slope",
		"-hillshade", "-light", "-1.41421", "0", "1",
		"-keep_class", "2", "6", "-extra_pass",
		"-use_tile_bb", "-otif", "-odir", "out",
	}, got)

	got = buildTool(t, "las2dem", map[string]string{
		"input_file": "in.laz",
		"product":    "false colors",
		"min":        "0",
		"max":        "100,5",
	}, false)
	assert.Equal(t, []string{"las2dem.exe", "-i", "in.laz", "-false", "-set_min_max", "0", "100.5"}, got)
}

func TestLas2iso_ContourModes(t *testing.T) {
	got := buildTool(t, "las2iso", map[string]string{
		"input_file":    "in.laz",
		"contour_value": "20",
	}, false)
	assert.Equal(t, []string{"las2iso.exe", "-i", "in.laz", "-iso_number", "20"}, got)

	got = buildTool(t, "las2iso", map[string]string{
		"input_file":    "in.laz",
		"contour_mode":  "a contour every x elevation units",
		"contour_value": "0,5",
		"smooth":        "3",
	}, false)
	assert.Equal(t, []string{"las2iso.exe", "-i", "in.laz", "-iso_every", "0.5", "-smooth", "3"}, got)
}

func TestLas2txt_Parse(t *testing.T) {
	got := buildTool(t, "las2txt", map[string]string{
		"input_file":      "in.laz",
		"parse":           "xyzi",
		"rgb":             "true",
		"extra_attribute": "0",
		"separator":       "comma",
	}, false)
	assert.Equal(t, []string{
		"las2txt.exe", "-i", "in.laz", "-parse", "xyziRGBE", "-extra", "0", "-sep", "comma",
	}, got)
}

func TestLasground(t *testing.T) {
	got := buildTool(t, "lasground", map[string]string{
		"input_file":    "in.laz",
		"airborne":      "false",
		"terrain":       "metropolis",
		"granularity":   "ultra fine",
		"ignore_class1": "water (9)",
		"output_format": "xyzc",
	}, false)
	assert.Equal(t, []string{
		"lasground.exe", "-i", "in.laz", "-not_airborne", "-metro", "-ultra_fine",
		"-ignore_class", "9", "-otxt", "-oparse", "xyzc",
	}, got)
}

func TestLasindex_SplitsTokens(t *testing.T) {
	got := buildTool(t, "lasindex", map[string]string{"input_file": "in.laz", "mode": "mobile"}, false)
	assert.Equal(t, []string{"lasindex.exe", "-i", "in.laz", "-tile_size", "10", "-maximum", "-100"}, got)
}

func TestLasmerge(t *testing.T) {
	got := buildTool(t, "lasmerge", map[string]string{
		"file1":       "a.laz",
		"file2":       "b.laz",
		"file4":       "d.laz",
		"output_file": "merged.laz",
	}, false)
	assert.Equal(t, []string{"lasmerge.exe", "-i", "a.laz", "b.laz", "d.laz", "-o", "merged.laz"}, got)
}

func TestLasmerge_RequiresOutput(t *testing.T) {
	tool, _ := Lookup("lasmerge")
	_, err := tool.Parse(dialogArgs(tool, map[string]string{"file1": "a.laz", "file2": "b.laz"}, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_file")
}

func TestLassplit(t *testing.T) {
	got := buildTool(t, "lassplit", map[string]string{
		"input_file":  "in.laz",
		"split_mode":  "split by GPS time interval",
		"split_value": "0,5",
	}, false)
	assert.Equal(t, []string{"lassplit.exe", "-i", "in.laz", "-by_gps_time_interval", "0.5"}, got)

	got = buildTool(t, "lassplit", map[string]string{
		"input_file":  "in.laz",
		"split_mode":  "split by classification",
		"split_value": "100",
	}, false)
	assert.Equal(t, []string{"lassplit.exe", "-i", "in.laz", "-by_classification"}, got)
}

// TestLasprecision_SharedSlot pins the dialog's use of the rescale_z slot
// as both z scale and output format.
func TestLasprecision_SharedSlot(t *testing.T) {
	got := buildTool(t, "lasprecision", map[string]string{
		"input_file": "in.laz",
		"rescale":    "true",
		"rescale_x":  "0,01",
		"rescale_y":  "0.01",
		"rescale_z":  "0.001",
	}, false)
	assert.Equal(t, []string{"lasprecision.exe", "-i", "in.laz", "-rescale", "0.01", "0.01", "0.001"}, got)

	got = buildTool(t, "lasprecision", map[string]string{
		"input_file": "in.laz",
		"rescale_z":  "laz",
	}, false)
	assert.Equal(t, []string{"lasprecision.exe", "-i", "in.laz", "-olaz"}, got)
}

func TestLasclassify_Gutters(t *testing.T) {
	got := buildTool(t, "lasclassify", map[string]string{
		"input_file":   "in.laz",
		"gutters":      "false",
		"wide_gutters": "true",
		"overhang":     "false",
	}, false)
	assert.Equal(t, []string{"lasclassify.exe", "-i", "in.laz", "-no_gutters", "-keep_overhang"}, got)
}

// --- production tools ---

func TestLas2demPro(t *testing.T) {
	got := buildTool(t, "las2demPro", map[string]string{
		"input_folder": "tiles",
		"wildcards":    "*.las *.laz",
		"step":         "0,5",
		"cores":        "4",
	}, false)
	assert.Equal(t, []string{
		"las2dem.exe",
		"-i", filepath.Join("tiles", "*.las"),
		"-i", filepath.Join("tiles", "*.laz"),
		"-step", "0.5", "-cores", "4",
	}, got)
}

func TestLasboundaryPro_ThinWithGrid(t *testing.T) {
	got := buildTool(t, "lasboundaryPro", map[string]string{
		"input_folder":   "tiles",
		"thin_with_grid": "true",
		"filter":         "buildings",
	}, false)
	assert.Equal(t, []string{
		"lasboundary.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-thin_with_grid", "12.5", "-keep_class", "6",
	}, got)

	got = buildTool(t, "lasboundaryPro", map[string]string{
		"input_folder":   "tiles",
		"concavity":      "6",
		"thin_with_grid": "true",
	}, false)
	assert.Equal(t, []string{
		"lasboundary.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-concavity", "6", "-thin_with_grid", "1.5",
	}, got)
}

func TestLascanopyPro_Products(t *testing.T) {
	got := buildTool(t, "lascanopyPro", map[string]string{
		"input_folder": "tiles",
		"products":     "max;'p 25 50 75';cov",
		"counts":       "2 5,5 10",
		"densities":    "5",
	}, false)
	assert.Equal(t, []string{
		"lascanopy.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-max", "-p", "25", "50", "75", "-cov",
		"-c", "2", "5.5", "10",
	}, got)
}

// TestLascontrolPro_SlotGating pins the dialog's gating of -parse, -skip
// and -feet on neighbouring slots.
func TestLascontrolPro_SlotGating(t *testing.T) {
	got := buildTool(t, "lascontrolPro", map[string]string{
		"input_folder":   "tiles",
		"control_points": "cp.csv",
	}, false)
	assert.Equal(t, []string{
		"lascontrol.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-cp", "cp.csv", "-parse", "xyz", "-skip", "0",
	}, got)

	got = buildTool(t, "lascontrolPro", map[string]string{
		"input_folder":   "tiles",
		"control_points": "cp.csv",
		"parse":          "true",
		"feet":           "1",
		"filter":         "only ground points",
	}, false)
	assert.Equal(t, []string{
		"lascontrol.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-cp", "cp.csv", "-parse", "true", "-skip", "0", "-feet", "1", "-keep_class", "2",
	}, got)
}

func TestLas2lasProProject(t *testing.T) {
	got := buildTool(t, "las2lasPro_project", map[string]string{
		"input_folder":       "tiles",
		"source":             "State Plane NAD83",
		"source_state_plane": "CA_I",
		"target":             "UTM",
		"target_zone":        "10",
		"target_north":       "true",
		"output_format":      "laz",
	}, false)
	assert.Equal(t, []string{
		"las2las.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-sp83", "CA_I", "-target_utm", "10N", "-olaz",
	}, got)
}

// TestLas2lasProProject_FeetSlots pins the shifted reading of the target
// feet checkboxes.
func TestLas2lasProProject_FeetSlots(t *testing.T) {
	got := buildTool(t, "las2lasPro_project", map[string]string{
		"input_folder":          "tiles",
		"target":                "Longitude Latitude",
		"target_state_plane":    "true",
		"target_elevation_feet": "true",
	}, false)
	assert.Equal(t, []string{
		"las2las.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-target_longlat", "-target_feet",
	}, got)
}

func TestLas2lasProProject_Errors(t *testing.T) {
	tool, _ := Lookup("las2lasPro_project")

	tests := []struct {
		name string
		set  map[string]string
		want string
	}{
		{
			name: "utm without zone",
			set:  map[string]string{"input_folder": "tiles", "source": "UTM"},
			want: "ERROR: no UTM zone specified",
		},
		{
			name: "target state plane without code",
			set:  map[string]string{"input_folder": "tiles", "target": "State Plane NAD 27"},
			want: "ERROR: no target state plane 27 specified",
		},
		{
			name: "unknown target",
			set:  map[string]string{"input_folder": "tiles", "target": "Mercator"},
			want: "ERROR: no target projection specified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := tool.Parse(dialogArgs(tool, tt.set, false))
			require.NoError(t, err)
			_, err = inv.Build("las2las.exe")
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestLasheightProClassify(t *testing.T) {
	got := buildTool(t, "lasheightPro_classify", map[string]string{
		"input_folder":   "tiles",
		"ground_class":   "keypoint (8)",
		"below_class":    "low point (7)",
		"below_height":   "-2",
		"between_class2": "low vegetation (3)",
		"between_from2":  "0,5",
		"between_to2":    "2",
		"above_class":    "high vegetation (5)",
		"above_height":   "5",
	}, false)
	assert.Equal(t, []string{
		"lasheight.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-class", "8",
		"-classify_below", "-2", "7",
		"-classify_between", "0.5", "2", "3",
		"-classify_above", "5", "5",
	}, got)

	got = buildTool(t, "lasheightPro_classify", map[string]string{
		"input_folder":  "tiles",
		"ground_points": "ground.laz",
	}, false)
	assert.Equal(t, []string{
		"lasheight.exe", "-i", filepath.Join("tiles", "*.laz"), "-ground_points", "ground.laz",
	}, got)
}

func TestLasinfoPro(t *testing.T) {
	got := buildTool(t, "lasinfoPro", map[string]string{
		"input_folder":    "tiles",
		"compute_density": "true",
		"progress":        "true",
		"report":          "*_info.txt",
	}, false)
	assert.Equal(t, []string{
		"lasinfo.exe", "-i", filepath.Join("tiles", "*.laz"),
		"-cd", "-progress", "1000000", "-odix", "_info", "-otxt",
	}, got)
}

// TestDefaultsEmitNothing checks, for every tool, that an argument vector
// holding only defaults (plus required inputs) emits no optional flag.
func TestDefaultsEmitNothing(t *testing.T) {
	required := map[string]string{
		"input_file":     "in.laz",
		"input_folder":   "tiles",
		"file1":          "a.laz",
		"file2":          "b.laz",
		"output_file":    "out.laz",
		"polygons":       "poly.shp",
		"control_points": "cp.csv",
	}

	for _, tool := range All() {
		t.Run(tool.Name, func(t *testing.T) {
			set := make(map[string]string)
			for _, p := range tool.Params {
				if p.Required {
					set[p.Name] = required[p.Name]
				}
			}
			got := buildTool(t, tool.Name, set, false)
			for _, flag := range []string{"-step", "-kill", "-cores", "-odir", "-odix", "-keep_class", "-light"} {
				assert.NotContains(t, got, flag)
			}
		})
	}
}

func TestTool_Title(t *testing.T) {
	for name, want := range map[string]string{
		"las2dem":               "las2dem",
		"las2las_transform":     "las2las",
		"las2demPro":            "las2dem production",
		"las2lasPro_project":    "las2las (project) production",
		"lasheightPro_classify": "lasheight (classify) production",
	} {
		tool, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, want, tool.Title(), name)
	}
}

func TestNumbers_DecimalCommaNormalized(t *testing.T) {
	tests := []struct {
		tool  string
		set   map[string]string
		flag  string
		value string
	}{
		{"lasnoise", map[string]string{"input_file": "in.laz", "isolated": "1,5"}, "-isolated", "1.5"},
		{"lasdiff", map[string]string{"input_file": "in.laz", "random_seeks": "2,5"}, "-random_seeks", "2.5"},
		{"las2shp", map[string]string{"input_file": "in.laz", "record_size": "512,5"}, "-record_size", "512.5"},
		{"lasclip", map[string]string{"input_file": "in.laz", "polygons": "p.shp", "classify": "true", "class": "12,0"}, "-classify", "12.0"},
		{"las2iso", map[string]string{"input_file": "in.laz", "contour_value": "20,5"}, "-iso_number", "20.5"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.flag, func(t *testing.T) {
			got := buildTool(t, tt.tool, tt.set, false)

			i := indexOf(got, tt.flag)
			require.GreaterOrEqual(t, i, 0, "%s missing from %v", tt.flag, got)
			require.Less(t, i+1, len(got))
			assert.Equal(t, tt.value, got[i+1])
			for _, arg := range got {
				assert.NotContains(t, arg, ",", "decimal comma leaked into %v", got)
			}
		})
	}
}

func indexOf(args []string, s string) int {
	for i, a := range args {
		if a == s {
			return i
		}
	}
	return -1
}
