package pypoly

// Copyright 2018 The go-python Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-python/gpython/py"

	"github.com/polytope-systems/gopoly/gopoly"
	"github.com/polytope-systems/gopoly/libpoly"
	"github.com/polytope-systems/gopoly/libpoly/catalog"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyPolytopeType   = py.NewType("Polytope", "a polytope described by its vertex-facet incidences")
	pyFaceStreamType = py.NewType("FaceStream", "gopoly.FaceStream")
	pyCatalogType    = py.NewType("Catalog", "gopoly.Catalog")
	pyWorkspaceType  = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyPolytope struct {
	*libpoly.Polytope
}

func (P pyPolytope) Type() *py.Type {
	return pyPolytopeType
}

func (P pyPolytope) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	P.WriteAsString(&writer, gopoly.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (P pyPolytope) M__repr__() (py.Object, error) {
	return P.M__str__()
}

func getPolytopeFromObj(obj py.Object) (P pyPolytope, err error) {
	P, ok := obj.(pyPolytope)
	if !ok {
		err = py.ExceptionNewf(py.TypeError, "expected Polytope object (got %v)", obj.Type().Name)
	}
	return
}

// Arg 1 (str): polytope expression, e.g. "cube(3)" or "(0 1 2)(0 1 3)(0 2 3)(1 2 3)"
func py_Polytope(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	err := py.LoadTuple(args, []interface{}{&expr})
	if err != nil {
		return nil, err
	}

	P, err := libpoly.ParsePolyExpr(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyPolytope{P}), nil
}

func py_Polytope_Dim(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)
	return py.Object(py.Int(P.Dimension())), nil
}

func py_Polytope_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)
	return py.Object(py.Int(P.VertexCount())), nil
}

func py_Polytope_NumFacets(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)
	return py.Object(py.Int(P.FacetCount())), nil
}

func py_Polytope_FVector(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)

	fv, err := P.FVector()
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	counts := make(py.Tuple, len(fv))
	for i, n := range fv {
		counts[i] = py.Int(n)
	}
	return py.Object(counts), nil
}

// Arg 1 (int, optional): lowest face dimension to emit
// Arg 2 (int, optional): highest face dimension to emit
//
// With no args, every proper face plus the full polytope is emitted.
func py_Polytope_Faces(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)

	opts := libpoly.EnumOpts{
		Dual: P.VertexCount() < P.FacetCount(),
	}
	switch len(args) {
	case 0:
	case 1:
		lo, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		opts.Dims = libpoly.SingleDim(int(lo))
	default:
		lo, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		hi, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		opts.Dims = &libpoly.DimRange{Lo: int(lo), Hi: int(hi)}
	}

	return wrapFaceStream(P.Stream(opts)), nil
}

func py_Polytope_Audit(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyPolytope)
	if err := P.Audit(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.True, nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx gopoly.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: gopoly.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags, maxDim int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags, &maxDim})
	if err != nil {
		return nil, err
	}

	opts := gopoly.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
		MaxDim:     maxDim,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	pyCat := pyCatalog{cat}
	return py.Object(pyCat), nil
}

type pyCatalog struct {
	gopoly.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

// Tries to add the given Polytope, returning True if it was not already cataloged.
func py_Catalog_TryAdd(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("catalog is in read-only mode"))
	}

	P, err := getPolytopeFromObj(args[0])
	if err != nil {
		return nil, err
	}
	if cat.TryAddPolytope(P.Polytope) {
		return py.True, nil
	}
	return py.False, nil
}

func py_Catalog_NumPolytopes(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	dim, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}

	return py.Int(cat.NumPolytopes(int32(dim))), nil
}

// Arg 1 (int, optional): lowest polytope dimension to select
// Arg 2 (int, optional): highest polytope dimension to select
//
// Returns the selected polytopes as a list.
func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	sel := gopoly.DefaultPolySelector
	if len(args) > 0 {
		dim, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		sel.Min.Dim = int32(dim)
		sel.Max.Dim = int32(dim)
	}
	if len(args) > 1 {
		dim, err := py.GetInt(args[1])
		if err != nil {
			return nil, err
		}
		sel.Max.Dim = int32(dim)
	}

	onHit := make(chan gopoly.PolytopeState, 1)
	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	hits := py.NewList()
	for P := range onHit {
		hits.Append(py.Object(pyPolytope{P.(*libpoly.Polytope)}))
	}
	return hits, nil
}

func py_FaceStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(faceStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	if echo.to == nil {
		n, err = echo.stdout.Write(buf)
	} else {
		n, err = echo.to.Write(buf)
	}
	return n, err
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

func py_FaceStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(faceStream)
	var pathname string

	opts := gopoly.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", gOutCount)
	}

	py.LoadAttr(kwargs, "coatoms", &opts.Coatoms)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(string(pathname), os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapFaceStream(next), nil
}

type faceStream struct {
	*gopoly.FaceStream
}

func (stream faceStream) Type() *py.Type {
	return pyFaceStreamType
}

func wrapFaceStream(stream *gopoly.FaceStream) py.Object {
	return py.Object(faceStream{stream})
}

// Arg 1 (int): lowest face dimension to pass through
// Arg 2 (int): highest face dimension to pass through
func py_FaceStream_SelectDims(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(faceStream)

	lo, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := py.GetInt(args[1])
	if err != nil {
		return nil, err
	}

	next := stream.SelectDims(int(lo), int(hi))
	return wrapFaceStream(next), nil
}

func py_FaceStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(faceStream)

	// Create a memory resident face set that gets auto-closed when the stream closes
	next := stream.DropDupes(libpoly.NewFaceSet())
	return wrapFaceStream(next), nil
}

func init() {

	/////////////////////////////////
	// Polytope
	{
		pyPolytopeType.Dict["Dim"] = py.MustNewMethod("Dim", py_Polytope_Dim, 0, "")
		pyPolytopeType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Polytope_NumVerts, 0, "")
		pyPolytopeType.Dict["NumFacets"] = py.MustNewMethod("NumFacets", py_Polytope_NumFacets, 0, "")
		pyPolytopeType.Dict["FVector"] = py.MustNewMethod("FVector", py_Polytope_FVector, 0, "exports this Polytope's f-vector as a tuple")
		pyPolytopeType.Dict["Faces"] = py.MustNewMethod("Faces", py_Polytope_Faces, 0, "enumerates this Polytope's faces as a FaceStream")
		pyPolytopeType.Dict["Audit"] = py.MustNewMethod("Audit", py_Polytope_Audit, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["TryAdd"] = py.MustNewMethod("TryAdd", py_Catalog_TryAdd, 0, "")
		pyCatalogType.Dict["NumPolytopes"] = py.MustNewMethod("NumPolytopes", py_Catalog_NumPolytopes, 0, "")
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// FaceStream
	{
		pyFaceStreamType.Dict["Go"] = py.MustNewMethod("Go", py_FaceStream_Go, 0, "counts the number of faces output from the FaceStream")
		pyFaceStreamType.Dict["Print"] = py.MustNewMethod("Print", py_FaceStream_Print, 0, "prints each face from the FaceStream")
		pyFaceStreamType.Dict["SelectDims"] = py.MustNewMethod("SelectDims", py_FaceStream_SelectDims, 0, "")
		pyFaceStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_FaceStream_DropDupes, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Polytope", py_Polytope, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"PY_VERSION":  py.String("v3.4.0"),
			"MAX_GEN_DIM": py.Int(libpoly.MaxShapeDim),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pypoly",
				Doc:  "combinatorial polytope gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})

	}
}
