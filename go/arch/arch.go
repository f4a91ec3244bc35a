// Package arch is the processor registry. Backends are looked up by name and
// built through their zero-argument factory.
package arch

import (
	"sort"
	"sync"

	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/pkg/errors"

	"github.com/lunixbochs/redcorn/go/arch/arm"
	"github.com/lunixbochs/redcorn/go/arch/arm64"
	"github.com/lunixbochs/redcorn/go/arch/bpf"
	"github.com/lunixbochs/redcorn/go/arch/mips"
	"github.com/lunixbochs/redcorn/go/arch/ndh"
	"github.com/lunixbochs/redcorn/go/arch/ppc64"
	"github.com/lunixbochs/redcorn/go/arch/x86"
	"github.com/lunixbochs/redcorn/go/arch/x86_16"
	"github.com/lunixbochs/redcorn/go/arch/x86_64"
	"github.com/lunixbochs/redcorn/go/models"
)

var (
	archMu  sync.RWMutex
	archMap = make(map[string]*models.Arch)
)

func init() {
	for _, a := range []*models.Arch{
		arm.Arch,
		arm64.Arch,
		bpf.Arch,
		bpf.ArchBE,
		mips.Arch,
		mips.ArchLE,
		ndh.Arch,
		ppc64.Arch,
		ppc64.ArchLE,
		x86.Arch,
		x86_16.Arch,
		x86_64.Arch,
	} {
		Register(a)
	}
}

// Register adds a backend. Registering a name twice is a programming error.
func Register(a *models.Arch) {
	archMu.Lock()
	defer archMu.Unlock()
	if a.New == nil {
		panic("arch " + a.Name + " has no factory")
	}
	if _, ok := archMap[a.Name]; ok {
		panic("Duplicate arch " + a.Name)
	}
	archMap[a.Name] = a
}

func GetArch(name string) (*models.Arch, error) {
	archMu.RLock()
	defer archMu.RUnlock()
	a, ok := archMap[name]
	if !ok {
		return nil, errors.Errorf("Arch '%s' not found.", name)
	}
	return a, nil
}

// New builds a fresh processor for the named backend.
func New(name string) (models.Processor, error) {
	a, err := GetArch(name)
	if err != nil {
		return nil, err
	}
	p, err := a.New()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s processor", name)
	}
	return p, nil
}

// Names lists registered backends in natural order (x86_16 before x86_64).
func Names() []string {
	archMu.RLock()
	defer archMu.RUnlock()
	names := make([]string, 0, len(archMap))
	for name := range archMap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return sortorder.NaturalLess(names[i], names[j]) })
	return names
}
