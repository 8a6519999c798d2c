// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// Version tags, read as a little endian int32.
const (
	Version     = 29
	Version2PSB = '2' | 'P'<<8 | 'S'<<16 | 'B'<<24
	VersionBSP2 = 'B' | 'S'<<8 | 'P'<<16 | '2'<<24
	// VersionQuake64 uses the 29 layout with packed light and a shift in
	// the miptex header.
	VersionQuake64 = ' ' | '4'<<8 | '6'<<16 | 'Q'<<24
)

// Record sizes on disk. The S layout uses 16 bit indices, L1 and L2 use
// 32 bit ones, L2 also stores float boxes.
const (
	vertexSize    = 12 // float point[3]
	planeSize     = 20 // float normal[3], dist; int type
	texInfoSize   = 40 // float vecs[2][4]; int miptex, flags
	surfEdgeSize  = 4
	submodelSize  = 64 // float mins[3], maxs[3], origin[3]; int headnode[4], visleafs, firstface, numfaces
	miptexSize    = 40 // char name[16]; uint width, height, offsets[4]
	miptex64Size  = 44 // like miptex with an int shift after height
	edgeSizeS     = 4
	edgeSizeL     = 8
	faceSizeS     = 20
	faceSizeL     = 28
	nodeSizeS     = 24
	nodeSizeL1    = 32
	nodeSizeL2    = 44
	leafSizeS     = 28
	leafSizeL1    = 32
	leafSizeL2    = 44
	clipNodeSizeS = 8
	clipNodeSizeL = 12
)

// Face records
//
//	S: short planenum, side; int firstedge; short numedges, texinfo;
//	   byte styles[4]; int lightofs
//	L: int planenum, side, firstedge, numedges, texinfo;
//	   byte styles[4]; int lightofs
type faceLayout struct {
	size      int
	plane     int
	side      int
	firstEdge int
	numEdges  int
	texInfo   int
	styles    int
	lightOfs  int
	long      bool
}

var (
	faceS = faceLayout{size: faceSizeS, plane: 0, side: 2, firstEdge: 4, numEdges: 8, texInfo: 10, styles: 12, lightOfs: 16}
	faceL = faceLayout{size: faceSizeL, plane: 0, side: 4, firstEdge: 8, numEdges: 12, texInfo: 16, styles: 20, lightOfs: 24, long: true}
)

// Leaf records
//
//	S:  int contents, visofs; short mins[3], maxs[3];
//	    ushort firstmarksurface, nummarksurfaces; byte ambient[4]
//	L1: like S with uint mark surface fields
//	L2: like L1 with float boxes
type leafLayout struct {
	size      int
	box       int
	firstMark int
	numMark   int
	ambient   int
	floatBox  bool
	longMark  bool
}

var (
	leafS  = leafLayout{size: leafSizeS, box: 8, firstMark: 20, numMark: 22, ambient: 24}
	leafL1 = leafLayout{size: leafSizeL1, box: 8, firstMark: 20, numMark: 24, ambient: 28, longMark: true}
	leafL2 = leafLayout{size: leafSizeL2, box: 8, firstMark: 32, numMark: 36, ambient: 40, longMark: true, floatBox: true}
)
