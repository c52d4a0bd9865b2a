package source

import (
	"fmt"
	"io"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/pion/hantro/pkg/decoder"
)

type mp4Sample struct {
	nr         uint32
	decodeTime uint64
	sync       bool
	// data is set for fragmented files, whose samples are parsed up front.
	data []byte
}

// MP4 reads the samples of the first AVC video track of an MP4 file.
// Length prefixed NAL units are converted to Annex-B and sync samples are
// preceded by the track's parameter sets.
type MP4 struct {
	r         io.ReadSeeker
	stbl      *mp4.StblBox
	timescale uint32
	paramSets []byte
	samples   []mp4Sample
	next      int
}

// NewMP4 parses the boxes of r and indexes the samples of its video track.
func NewMP4(r io.ReadSeeker) (*MP4, error) {
	f, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	m := &MP4{r: r, timescale: 1000}
	if f.IsFragmented() {
		err = m.indexFragmented(f)
	} else {
		err = m.indexProgressive(f)
	}
	if err != nil {
		return nil, err
	}

	logger.Debugf("mp4: %d samples, timescale %d", len(m.samples), m.timescale)
	return m, nil
}

// CodecData returns the sequence and picture parameter sets in Annex-B
// form.
func (m *MP4) CodecData() []byte {
	return m.paramSets
}

func (m *MP4) Read() (decoder.AccessUnit, error) {
	if m.next >= len(m.samples) {
		return decoder.AccessUnit{}, io.EOF
	}
	s := m.samples[m.next]
	m.next++

	data := s.data
	if data == nil {
		var err error
		data, err = readSample(m.stbl, m.r, s.nr)
		if err != nil {
			return decoder.AccessUnit{}, err
		}
	}

	var au []byte
	if s.sync {
		au = append(au, m.paramSets...)
	}
	au = append(au, avccToAnnexB(data)...)

	return decoder.AccessUnit{
		Data: au,
		PTS:  time.Duration(s.decodeTime) * time.Second / time.Duration(m.timescale),
	}, nil
}

// videoTrack returns the first video track and its avcC box.
func videoTrack(moov *mp4.MoovBox) (*mp4.TrakBox, *mp4.AvcCBox, error) {
	if moov == nil {
		return nil, nil, fmt.Errorf("%w: no moov box", ErrNoVideoTrack)
	}
	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
			continue
		}
		for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
			switch child.Type() {
			case "avc1", "avc3":
				entry, ok := child.(*mp4.VisualSampleEntryBox)
				if !ok || entry.AvcC == nil {
					continue
				}
				return trak, entry.AvcC, nil
			default:
				logger.Warnf("mp4: skipping %s track %d", child.Type(), trak.Tkhd.TrackID)
			}
		}
	}
	return nil, nil, ErrNoVideoTrack
}

func (m *MP4) setTrack(trak *mp4.TrakBox, avcC *mp4.AvcCBox) {
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
		m.timescale = trak.Mdia.Mdhd.Timescale
	}

	m.paramSets = nil
	for _, sps := range avcC.SPSnalus {
		m.paramSets = append(m.paramSets, startCode...)
		m.paramSets = append(m.paramSets, sps...)
	}
	for _, pps := range avcC.PPSnalus {
		m.paramSets = append(m.paramSets, startCode...)
		m.paramSets = append(m.paramSets, pps...)
	}
}

func (m *MP4) indexProgressive(f *mp4.File) error {
	trak, avcC, err := videoTrack(f.Moov)
	if err != nil {
		return err
	}
	m.setTrack(trak, avcC)

	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return fmt.Errorf("mp4: no stsz box")
	}
	m.stbl = stbl

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	m.samples = make([]mp4Sample, 0, stbl.Stsz.SampleNumber)
	for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
		s := mp4Sample{
			nr: nr,
			// Without an stss box every sample is a sync sample.
			sync: stbl.Stss == nil || syncSamples[nr],
		}
		if stbl.Stts != nil {
			s.decodeTime, _ = stbl.Stts.GetDecodeTime(nr)
		}
		m.samples = append(m.samples, s)
	}
	return nil
}

func (m *MP4) indexFragmented(f *mp4.File) error {
	if f.Init == nil {
		return fmt.Errorf("%w: no init segment", ErrNoVideoTrack)
	}
	trak, avcC, err := videoTrack(f.Init.Moov)
	if err != nil {
		return err
	}
	m.setTrack(trak, avcC)

	trackID := trak.Tkhd.TrackID
	var trex *mp4.TrexBox
	if f.Init.Moov.Mvex != nil {
		for _, t := range f.Init.Moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}
				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return fmt.Errorf("mp4: get samples: %w", err)
				}
				for _, s := range samples {
					m.samples = append(m.samples, mp4Sample{
						decodeTime: s.DecodeTime,
						sync:       s.Flags == mp4.SyncSampleFlags || len(m.samples) == 0,
						data:       s.Data,
					})
				}
			}
		}
	}
	return nil
}

// readSample reads sample nr of a progressive file through its chunk table.
func readSample(stbl *mp4.StblBox, r io.ReadSeeker, nr uint32) ([]byte, error) {
	if stbl.Stsc == nil {
		return nil, fmt.Errorf("mp4: no stsc box")
	}

	chunkNr, firstSample, err := stbl.Stsc.ChunkNrFromSampleNr(int(nr))
	if err != nil {
		return nil, fmt.Errorf("mp4: sample %d: %w", nr, err)
	}

	var offset uint64
	switch {
	case stbl.Stco != nil:
		offset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("mp4: chunk %d: %w", chunkNr, err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("mp4: chunk %d out of range", chunkNr)
		}
		offset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return nil, fmt.Errorf("mp4: no stco or co64 box")
	}

	for s := uint32(firstSample); s < nr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}
	data := make([]byte, stbl.Stsz.GetSampleSize(int(nr)))
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("mp4: sample %d: %w", nr, err)
	}
	return data, nil
}

// avccToAnnexB replaces the four byte length prefixes of data with start
// codes. A truncated trailing NAL unit is dropped.
func avccToAnnexB(data []byte) []byte {
	var out []byte
	for offset := 0; offset+4 <= len(data); {
		n := int(data[offset])<<24 | int(data[offset+1])<<16 | int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if n < 0 || offset+n > len(data) {
			logger.Warnf("mp4: dropping truncated NAL unit of %d bytes", n)
			break
		}
		out = append(out, startCode...)
		out = append(out, data[offset:offset+n]...)
		offset += n
	}
	return out
}
