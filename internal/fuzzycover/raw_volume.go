package fuzzycover

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// Volume is a dense per-cell scalar grid laid out as (i*Ny + j)*Nz + k.
type Volume struct {
	Nx, Ny, Nz int
	Buf        []float64
}

func (v *Volume) idx(i, j, k int) int { return (i*v.Ny+j)*v.Nz + k }

func (v *Volume) At(i, j, k int) float64 { return v.Buf[v.idx(i, j, k)] }

// Volume returns, per scene cell, the highest network membership over all
// directions of the current model.
func (nw *Network) Volume() *Volume {
	s := nw.scene
	v := &Volume{Nx: s.Nx, Ny: s.Ny, Nz: s.Nz, Buf: make([]float64, s.Nx*s.Ny*s.Nz)}
	nw.mu.RLock()
	defer nw.mu.RUnlock()
	for k, e := range nw.model.All() {
		i, j, kk := k.I-s.Origin.I, k.J-s.Origin.J, k.K-s.Origin.K
		if i < 0 || i >= v.Nx || j < 0 || j >= v.Ny || kk < 0 || kk >= v.Nz {
			continue
		}
		if x := v.idx(i, j, kk); e.Mu > v.Buf[x] {
			v.Buf[x] = e.Mu
		}
	}
	return v
}

// SaveRaw writes an int32 little-endian (Nx, Ny, Nz) header followed by the
// float64 little-endian buffer.
func (v *Volume) SaveRaw(path string) error {
	if v.Nx < 0 || v.Ny < 0 || v.Nz < 0 {
		return fmt.Errorf("negative dimensions: Nx=%d Ny=%d Nz=%d", v.Nx, v.Ny, v.Nz)
	}
	exp64 := int64(v.Nx) * int64(v.Ny) * int64(v.Nz)
	if int64(len(v.Buf)) != exp64 {
		return fmt.Errorf("Buf length mismatch: got %d, expected %d (Nx*Ny*Nz)", len(v.Buf), exp64)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, n := range []int{v.Nx, v.Ny, v.Nz} {
		if err := binary.Write(w, binary.LittleEndian, int32(n)); err != nil {
			return err
		}
	}
	if exp64 > 0 {
		if err := binary.Write(w, binary.LittleEndian, v.Buf); err != nil {
			return err
		}
	}
	return w.Flush()
}
