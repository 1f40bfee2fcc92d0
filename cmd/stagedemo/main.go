// Command stagedemo runs the opacity shading stage over a scene file and
// writes a preview PNG.
package main

import (
	_ "embed"
	"encoding/binary"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/gpu"
)

//go:embed quad.yaml
var builtinScene []byte

type config struct {
	scenePath string
	output    string
	spirv     string
	workers   int
}

func main() {
	var (
		cfg     config
		verbose bool
	)
	flag.StringVar(&cfg.scenePath, "scene", "", "YAML scene file (default: built-in quad)")
	flag.StringVar(&cfg.output, "output", "stage.png", "output PNG file")
	flag.StringVar(&cfg.spirv, "spirv", "", "write the compiled SPIR-V shader to this file")
	flag.IntVar(&cfg.workers, "workers", 0, "vertex workers (0 = GOMAXPROCS)")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	if verbose {
		stage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

// run loads the scene, transforms its vertices on the Processor and
// rasterizes those results into the preview PNG.
func run(cfg config) error {
	scene, err := loadScene(cfg.scenePath)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	u, err := scene.Uniforms()
	if err != nil {
		return fmt.Errorf("invalid scene: %w", err)
	}

	proc := stage.NewProcessor(stage.WithWorkers(cfg.workers))
	defer proc.Close()

	img, err := renderScene(proc, scene, u)
	if err != nil {
		return err
	}
	if err := savePNG(cfg.output, img); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	log.Printf("Preview saved to %s (%dx%d, %d workers, color %v)\n",
		cfg.output, scene.Width, scene.Height, proc.Workers(), u.Fragment())

	if cfg.spirv != "" {
		if err := writeSPIRV(cfg.spirv); err != nil {
			return fmt.Errorf("write SPIR-V: %w", err)
		}
		log.Printf("SPIR-V saved to %s\n", cfg.spirv)
	}
	return nil
}

// renderScene runs the vertex stage on proc and draws its output.
func renderScene(proc *stage.Processor, scene *stage.Scene, u stage.Uniforms) (*image.RGBA, error) {
	vertices := scene.VertexInputs()
	out := make([]stage.VertexOut, len(vertices))
	if err := proc.ProcessVertices(u, vertices, out); err != nil {
		return nil, fmt.Errorf("process vertices: %w", err)
	}
	for i, v := range out {
		stage.Logger().Debug("vertex", "index", i, "clip", v.ClipPosition, "uv", v.TexCoord)
	}

	img, err := stage.PreviewClip(out, u.Fragment(), scene.Width, scene.Height)
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}
	return img, nil
}

func loadScene(path string) (*stage.Scene, error) {
	if path == "" {
		return stage.ParseScene(builtinScene)
	}
	return stage.LoadScene(path)
}

func savePNG(path string, img *image.RGBA) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(f, img)
}

func writeSPIRV(path string) error {
	words, err := gpu.CompileSPIRV()
	if err != nil {
		return err
	}
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return os.WriteFile(path, buf, 0o600)
}
