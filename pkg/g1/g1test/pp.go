package g1test

import (
	"sync"

	"github.com/pion/hantro/pkg/g1"
)

// PostProcessor implements g1.PostProcessor.
type PostProcessor struct {
	mu     sync.Mutex
	hw     *Hardware
	opened bool

	// Config is the configuration the hardware currently holds. Preset it
	// to change the defaults returned by GetConfig.
	Config g1.PPConfig
	// History records every accepted and rejected SetConfig.
	History []g1.PPConfig

	// SetConfigRet, CombineRet and ResultRet are returned by the matching calls.
	SetConfigRet g1.PPRet
	CombineRet   g1.PPRet
	ResultRet    g1.PPRet

	Combined g1.Codec
	DecType  g1.DecType
	Results  int
	Rendered int
	Released int
}

func (p *PostProcessor) GetConfig(cfg *g1.PPConfig) g1.PPRet {
	p.mu.Lock()
	defer p.mu.Unlock()

	*cfg = p.Config
	return g1.PPOK
}

func (p *PostProcessor) SetConfig(cfg *g1.PPConfig) g1.PPRet {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.History = append(p.History, *cfg)
	if p.SetConfigRet != g1.PPOK {
		return p.SetConfigRet
	}
	p.Config = *cfg
	return g1.PPOK
}

func (p *PostProcessor) CombinedModeEnable(c g1.Codec, t g1.DecType) g1.PPRet {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.CombineRet != g1.PPOK {
		return p.CombineRet
	}
	p.Combined = c
	p.DecType = t
	return g1.PPOK
}

func (p *PostProcessor) CombinedModeDisable(c g1.Codec) g1.PPRet {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Combined != c {
		return g1.PPParamError
	}
	p.Combined = nil
	return g1.PPOK
}

func (p *PostProcessor) GetResult() g1.PPRet {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Results++
	return p.ResultRet
}

func (p *PostProcessor) Release() {
	p.hw.mu.Lock()
	defer p.hw.mu.Unlock()

	p.Released++
}

// Last returns the most recent SetConfig argument.
func (p *PostProcessor) Last() (g1.PPConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.History) == 0 {
		return g1.PPConfig{}, false
	}
	return p.History[len(p.History)-1], true
}
