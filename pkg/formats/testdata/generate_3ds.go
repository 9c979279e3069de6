//go:build ignore

// This program generates a test 3DS file for unit tests.
// Run with: go run generate_3ds.go
package main

import (
	"bytes"
	"encoding/binary"
	"os"
)

func chunk(id uint16, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, id)
	binary.Write(&buf, binary.LittleEndian, int32(6+len(body)))
	buf.Write(body)
	return buf.Bytes()
}

func le(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func cstr(s string) []byte {
	return append([]byte(s), 0)
}

func main() {
	// Unit cube centered on the origin
	vertices := [][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	faces := [][3]uint16{
		{0, 2, 1}, {0, 3, 2}, // back
		{4, 5, 6}, {4, 6, 7}, // front
		{0, 1, 5}, {0, 5, 4}, // bottom
		{3, 7, 6}, {3, 6, 2}, // top
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
	uvs := [][2]float32{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	}

	vertexData := le(uint16(len(vertices)))
	for _, v := range vertices {
		vertexData = append(vertexData, le(v)...)
	}
	faceData := le(uint16(len(faces)))
	for _, f := range faces {
		faceData = append(faceData, le(f, uint16(0x0007))...)
	}
	uvData := le(uint16(len(uvs)))
	for _, uv := range uvs {
		uvData = append(uvData, le(uv)...)
	}
	faceMaterial := append(cstr("Crate"), le(uint16(len(faces)))...)
	for i := range faces {
		faceMaterial = append(faceMaterial, le(uint16(i))...)
	}

	data := chunk(0x4D4D,
		chunk(0x0002, le(int32(3))), // version
		chunk(0x3D3D,
			chunk(0x3D3E, le(int32(3))), // mesh version
			chunk(0xAFFF,
				chunk(0xA000, cstr("Crate")),
				chunk(0xA010, chunk(0x0011, []byte{200, 200, 200})), // ambient color
				chunk(0xA200,
					chunk(0x0030, le(uint16(100))), // percentage
					chunk(0xA300, cstr("CRATE.BMP")),
				),
			),
			chunk(0x0100, le(float32(1))), // master scale
			chunk(0x4000, cstr("Cube"),
				chunk(0x4100,
					chunk(0x4110, vertexData),
					chunk(0x4140, uvData),
					chunk(0x4160, make([]byte, 48)), // local axis
					chunk(0x4120, faceData, chunk(0x4130, faceMaterial)),
				),
			),
		),
		chunk(0xB000, chunk(0xB00A, le(uint16(5)), cstr("cube"), le(int32(0)))), // keyframer
	)

	if err := os.WriteFile("cube.3ds", data, 0644); err != nil {
		panic(err)
	}
}
