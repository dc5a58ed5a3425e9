package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"tidewater/internal/config"
	"tidewater/internal/surface"
)

var (
	meshLabelStyle = lipgloss.NewStyle().Width(18).Foreground(lipgloss.Color("244"))
	meshValueStyle = lipgloss.NewStyle().Bold(true)
)

// printMeshStats reports the mesh the configuration builds and the device
// buffers it needs.
func printMeshStats(w io.Writer, cfg config.Config, withKernel bool) error {
	mesh, err := surface.BuildGrid(cfg.MeshSize(), cfg.MeshResolution())
	if err != nil {
		return err
	}
	params := surface.Pack(cfg.Field(), cfg.Surface.NormalScale)
	gx, gy := surface.Groups(mesh.Resolution, surface.GroupSize)
	cols, rows := mesh.Resolution.Vertices()

	rows2 := [][2]string{
		{"Size", fmt.Sprintf("%g x %g", mesh.Size.X(), mesh.Size.Y())},
		{"Resolution", fmt.Sprintf("%d x %d", mesh.Resolution.X, mesh.Resolution.Y)},
		{"Vertices", fmt.Sprintf("%d (%d x %d)", len(mesh.Vertices), cols, rows)},
		{"Triangles", fmt.Sprintf("%d", len(mesh.Indices)/3)},
		{"Vertex buffer", fmt.Sprintf("%d bytes, stride %d", len(mesh.Vertices)*surface.VertexStride*4, surface.VertexStride*4)},
		{"Wave buffer", fmt.Sprintf("%d entries, %d bytes", params.WaveCount, len(params.Waves)*4)},
		{"Work groups", fmt.Sprintf("%d x %d of %d x %d", gx, gy, surface.GroupSize, surface.GroupSize)},
		{"Backend", cfg.Surface.Backend},
	}
	lines := make([]string, 0, len(rows2)+1)
	lines = append(lines, traceTitleStyle.Render("Water mesh"))
	for _, r := range rows2 {
		lines = append(lines, meshLabelStyle.Render(r[0])+meshValueStyle.Render(r[1]))
	}
	if _, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...)); err != nil {
		return err
	}
	if withKernel {
		_, err = io.WriteString(w, surface.KernelSource())
	}
	return err
}
