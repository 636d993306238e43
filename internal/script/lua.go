package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/blocknest/internal/engine"
	"github.com/dshills/blocknest/internal/engine/block"
	"github.com/dshills/blocknest/internal/htmlio"
)

const docTypeName = "blocknest.doc"

// LuaState is a sandboxed Lua interpreter bound to a runner's engine.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls from
// Go code.
type LuaState struct {
	L      *lua.LState
	runner *Runner

	mu     sync.Mutex
	closed bool
}

// NewLuaState creates a sandboxed interpreter with the global doc bound to
// the runner's engine.
func (r *Runner) NewLuaState() *LuaState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	s := &LuaState{L: L, runner: r}

	openSafeLibraries(L)
	s.installSandbox()
	s.installDoc()
	return s
}

// openSafeLibraries opens only the Lua standard libraries without file,
// process or module access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// installSandbox removes loaders and routes print to the logger.
func (s *LuaState) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	logger := s.runner.logger
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		logger.Info("lua print", zap.String("msg", strings.Join(parts, "\t")))
		return 0
	}))
}

// DoString executes Lua code. The runner's timeout bounds the execution.
func (s *LuaState) DoString(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := s.runner.context(ctx)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	return s.doWithRecovery(func() error {
		return s.L.DoString(code)
	})
}

// doWithRecovery executes a function with panic recovery.
func (s *LuaState) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the interpreter.
func (s *LuaState) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// RunLua executes Lua code in a fresh interpreter.
func (r *Runner) RunLua(ctx context.Context, code string) error {
	s := r.NewLuaState()
	defer s.Close()
	return s.DoString(ctx, code)
}

// RunLuaFile executes a Lua file in a fresh interpreter.
func (r *Runner) RunLuaFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.RunLua(ctx, string(code))
}

// installDoc binds the global doc userdata and its methods.
func (s *LuaState) installDoc() {
	L := s.L
	mt := L.NewTypeMetatable(docTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":        s.docText,
		"len":         s.docLen,
		"annotations": s.docAnnotations,
		"html":        s.docHTML,
		"insert":      s.docInsert,
		"delete":      s.docDelete,
		"replace":     s.docReplace,
		"apply":       s.docFormat("apply"),
		"remove":      s.docFormat("remove"),
		"toggle":      s.docFormat("toggle"),
		"align":       s.docAlign,
		"indent":      s.docIndent,
		"outdent":     s.docOutdent,
		"can_indent":  s.docCanIndent,
		"can_outdent": s.docCanOutdent,
		"formatted":   s.docFormatted,
		"undo":        s.docUndo,
		"redo":        s.docRedo,
		"history":     s.docHistory,
		"transaction": s.docTransaction,
		"snapshot":    s.docSnapshot,
		"restore":     s.docRestore,
		"check":       s.docCheck,
	}))

	ud := L.NewUserData()
	ud.Value = s.runner.engine
	L.SetMetatable(ud, mt)
	L.SetGlobal("doc", ud)
}

func (s *LuaState) checkDoc(L *lua.LState) *engine.Engine {
	ud := L.CheckUserData(1)
	e, ok := ud.Value.(*engine.Engine)
	if !ok {
		L.ArgError(1, "doc expected")
	}
	return e
}

// changed pushes the result of a mutating call or raises its error.
func changed(L *lua.LState, res engine.Result, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LBool(res.Changed))
	return 1
}

func (s *LuaState) docText(L *lua.LState) int {
	L.Push(lua.LString(s.checkDoc(L).Text()))
	return 1
}

func (s *LuaState) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(s.checkDoc(L).Len()))
	return 1
}

func (s *LuaState) docAnnotations(L *lua.LState) int {
	anns := s.checkDoc(L).Annotations()
	list := L.CreateTable(len(anns), 0)
	for _, a := range anns {
		t := L.CreateTable(0, 5)
		t.RawSetString("type", lua.LString(a.Type.String()))
		t.RawSetString("level", lua.LNumber(a.Level))
		t.RawSetString("start", lua.LNumber(a.Start))
		t.RawSetString("end", lua.LNumber(a.End))
		if a.Align != block.AlignNone {
			t.RawSetString("align", lua.LString(a.Align.String()))
		}
		list.Append(t)
	}
	L.Push(list)
	return 1
}

func (s *LuaState) docHTML(L *lua.LState) int {
	out, err := htmlio.ExportString(s.checkDoc(L), s.runner.html)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LString(out))
	return 1
}

func (s *LuaState) docInsert(L *lua.LState) int {
	res, err := s.checkDoc(L).Insert(L.CheckInt(2), L.CheckString(3))
	return changed(L, res, err)
}

func (s *LuaState) docDelete(L *lua.LState) int {
	res, err := s.checkDoc(L).Delete(L.CheckInt(2), L.CheckInt(3))
	return changed(L, res, err)
}

func (s *LuaState) docReplace(L *lua.LState) int {
	res, err := s.checkDoc(L).Replace(L.CheckInt(2), L.CheckInt(3), L.CheckString(4))
	return changed(L, res, err)
}

// docFormat returns the method for apply, remove or toggle.
func (s *LuaState) docFormat(op string) lua.LGFunction {
	return func(L *lua.LState) int {
		e := s.checkDoc(L)
		typ := checkType(L, 2)
		start, end := L.CheckInt(3), L.CheckInt(4)

		var res engine.Result
		var err error
		switch op {
		case "apply":
			res, err = e.Apply(start, end, typ, optAttributes(L, 5))
		case "remove":
			res, err = e.Remove(start, end, typ)
		default:
			res, err = e.Toggle(start, end, typ, optAttributes(L, 5))
		}
		return changed(L, res, err)
	}
}

func (s *LuaState) docAlign(L *lua.LState) int {
	e := s.checkDoc(L)
	align, err := block.ParseAlignment(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	res, err := e.SetAlignment(L.CheckInt(3), L.CheckInt(4), align)
	return changed(L, res, err)
}

func (s *LuaState) docIndent(L *lua.LState) int {
	res, err := s.checkDoc(L).Indent(L.CheckInt(2), L.CheckInt(3))
	return changed(L, res, err)
}

func (s *LuaState) docOutdent(L *lua.LState) int {
	res, err := s.checkDoc(L).Outdent(L.CheckInt(2), L.CheckInt(3))
	return changed(L, res, err)
}

func (s *LuaState) docCanIndent(L *lua.LState) int {
	L.Push(lua.LBool(s.checkDoc(L).CanIndent(L.CheckInt(2), L.CheckInt(3))))
	return 1
}

func (s *LuaState) docCanOutdent(L *lua.LState) int {
	L.Push(lua.LBool(s.checkDoc(L).CanOutdent(L.CheckInt(2), L.CheckInt(3))))
	return 1
}

func (s *LuaState) docFormatted(L *lua.LState) int {
	e := s.checkDoc(L)
	typ := checkType(L, 2)
	L.Push(lua.LBool(e.IsFormatted(L.CheckInt(3), L.CheckInt(4), typ)))
	return 1
}

func (s *LuaState) docUndo(L *lua.LState) int {
	ok, err := undoRedo(s.checkDoc(L).Undo())
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (s *LuaState) docRedo(L *lua.LState) int {
	ok, err := undoRedo(s.checkDoc(L).Redo())
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// docHistory returns {undo = {...}, redo = {...}} holding the descriptions
// of both stacks, oldest first.
func (s *LuaState) docHistory(L *lua.LState) int {
	e := s.checkDoc(L)
	t := L.CreateTable(0, 2)
	t.RawSetString("undo", descriptions(L, e.UndoHistory()))
	t.RawSetString("redo", descriptions(L, e.RedoHistory()))
	L.Push(t)
	return 1
}

func descriptions(L *lua.LState, infos []engine.OperationInfo) *lua.LTable {
	list := L.CreateTable(len(infos), 0)
	for _, info := range infos {
		list.Append(lua.LString(info.Description))
	}
	return list
}

// docTransaction calls fn as one undo unit. It returns true, or false and
// the error after reverting everything fn changed.
func (s *LuaState) docTransaction(L *lua.LState) int {
	e := s.checkDoc(L)
	name := L.CheckString(2)
	fn := L.CheckFunction(3)
	err := e.Transaction(name, func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	})
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func (s *LuaState) docSnapshot(L *lua.LState) int {
	id := s.checkDoc(L).CreateSnapshot(L.CheckString(2))
	L.Push(lua.LString(string(id)))
	return 1
}

func (s *LuaState) docRestore(L *lua.LState) int {
	e := s.checkDoc(L)
	snap, err := e.GetSnapshotByName(L.CheckString(2))
	if err == nil {
		err = e.RestoreSnapshot(snap.ID)
	}
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// docCheck returns true, or false and the violation.
func (s *LuaState) docCheck(L *lua.LState) int {
	if err := s.checkDoc(L).Check(); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func checkType(L *lua.LState, n int) block.Type {
	typ, err := block.ParseType(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return typ
}

// optAttributes reads an optional attribute table. Lua tables are unordered,
// so keys are taken in sorted order.
func optAttributes(L *lua.LState, n int) block.Attributes {
	var attrs block.Attributes
	t := L.OptTable(n, nil)
	if t == nil {
		return attrs
	}

	values := make(map[string]string)
	t.ForEach(func(k, v lua.LValue) {
		values[k.String()] = v.String()
	})
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs.Set(k, values[k])
	}
	return attrs
}

// IsLuaError reports whether err came from Lua code rather than the host.
func IsLuaError(err error) bool {
	var apiErr *lua.ApiError
	return errors.As(err, &apiErr)
}
