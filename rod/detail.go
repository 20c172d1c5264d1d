package rod

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"ficha"
)

// Modal selectors. A restricted record raises a plain Bootstrap modal
// stamped CONFIDENCIAL; a normal record opens a PrimeNG dialog whose
// content keeps growing while the record loads.
const (
	confidentialSelector = "div.modal-content"
	confidentialMarker   = "CONFIDENCIAL"
	dismissIconSelector  = ".icono-modal-cerrar"
	popupSelector        = `div.p-dialog[aria-modal="true"]`
	contentSelector      = ".p-dialog-content"
	snapshotBodySelector = "div.modal-body"
	closeImageSelector   = "img[alt='Cerrar']"
)

const (
	confidentialWait  = 3 * time.Second
	readyWait         = 20 * time.Second
	snapshotBodyWait  = 15 * time.Second
	renderGraceDelay  = 4 * time.Second
	layoutSettleDelay = 3 * time.Second
)

// snapshotWidthPx is the fixed content width used in the isolated
// capture page so the PDF layout is independent of the live viewport.
const snapshotWidthPx = 800

// Ensure Detail implements ficha.Detail at compile time.
var _ ficha.Detail = (*Detail)(nil)

// Detail is one open record modal on the listing page. CapturePDF
// renders the modal's content in its own throwaway page: the live
// modal sits inside an overlay sized and scrolled for the full
// listing, and printing it in place would clip the record.
type Detail struct {
	mgr    *Manager
	page   *rod.Page
	logger *slog.Logger

	modal *rod.Element
}

func newDetail(mgr *Manager, page *rod.Page, logger *slog.Logger) *Detail {
	return &Detail{mgr: mgr, page: page, logger: logger}
}

// Confidential reports whether the restricted-record modal appeared,
// dismissing it best-effort when it did.
func (d *Detail) Confidential(ctx context.Context) bool {
	p := d.page.Context(ctx)
	modal, err := p.Timeout(confidentialWait).ElementR(confidentialSelector, confidentialMarker)
	if err != nil {
		return false
	}
	if visible, err := modal.Visible(); err != nil || !visible {
		return false
	}

	if has, btn, err := modal.Has(dismissIconSelector); err == nil && has {
		_ = btn.Click(proto.InputMouseButtonLeft, 1)
	} else {
		_ = p.Keyboard.Press(input.Escape)
	}
	return true
}

// WaitReady waits for the normal record dialog to become visible.
func (d *Detail) WaitReady(ctx context.Context) error {
	modal, err := d.page.Context(ctx).Timeout(readyWait).Element(popupSelector)
	if err != nil {
		return ficha.Errorf(ficha.ETIMEOUT, "record dialog not visible: %v", err)
	}
	d.modal = modal
	return nil
}

// Stabilize waits for the dialog content to stop growing, then sizes
// the dialog to its content so nothing is clipped or scrolled away.
// It never fails the item: when the size signal is unavailable it
// falls back to a fixed grace delay and best-effort content.
func (d *Detail) Stabilize(ctx context.Context) error {
	result := ficha.WaitStable(ctx, d.measureContent, ficha.DefaultStabilizeOptions())
	if result == ficha.StabilizeTimedOut {
		d.logger.Warn("dialog content did not settle, proceeding after grace delay")
		sleep(ctx, renderGraceDelay)
	}

	_, err := d.modal.Eval(`() => {
		const content = this.querySelector('` + contentSelector + `');
		if (content) {
			this.style.width = (content.scrollWidth + 40) + 'px';
			this.style.height = (content.scrollHeight + 40) + 'px';
			this.style.overflow = 'visible';
		}
	}`)
	if err != nil {
		d.logger.Warn("could not fit dialog to content", "err", err)
		return nil
	}
	sleep(ctx, layoutSettleDelay)
	return nil
}

// measureContent samples the dialog content's scroll height.
func (d *Detail) measureContent(ctx context.Context) (int, error) {
	obj, err := d.modal.Eval(`() => {
		const content = this.querySelector('` + contentSelector + `');
		return content ? content.scrollHeight : 0;
	}`)
	if err != nil {
		return 0, err
	}
	return obj.Value.Int(), nil
}

// CapturePDF clones the dialog's HTML into a fresh page and prints
// that page to PDF. The snapshot page is closed on every path.
func (d *Detail) CapturePDF(ctx context.Context) ([]byte, error) {
	if d.modal == nil {
		return nil, ficha.Errorf(ficha.EINTERNAL, "capture requested before dialog was ready")
	}

	html, err := d.modal.HTML()
	if err != nil {
		return nil, ficha.Errorf(ficha.ECAPTURE, "reading dialog HTML: %v", err)
	}

	snap, err := d.mgr.SnapshotPage()
	if err != nil {
		return nil, ficha.Errorf(ficha.ECAPTURE, "creating snapshot page: %v", err)
	}
	defer func() { _ = snap.Close() }()
	snap = snap.Context(ctx)

	if err := snap.SetDocumentContent(html); err != nil {
		return nil, ficha.Errorf(ficha.ECAPTURE, "loading snapshot content: %v", err)
	}

	if _, err := snap.Timeout(snapshotBodyWait).Element(snapshotBodySelector); err != nil {
		d.logger.Warn("snapshot content may not be fully loaded", "err", err)
	}
	measure := func(ctx context.Context) (int, error) {
		obj, err := snap.Eval(`() => document.querySelector('` + snapshotBodySelector + `')?.scrollHeight || 0`)
		if err != nil {
			return 0, err
		}
		return obj.Value.Int(), nil
	}
	ficha.WaitStable(ctx, measure, ficha.DefaultStabilizeOptions())

	if _, err := snap.Eval(`() => {
		const body = document.querySelector('` + snapshotBodySelector + `');
		if (body) {
			body.style.width = '` + strconv.Itoa(snapshotWidthPx) + `px';
			body.style.height = body.scrollHeight + 'px';
		}
	}`); err != nil {
		d.logger.Warn("could not fit snapshot body", "err", err)
	}

	stream, err := snap.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      f64(8.27),  // A4 inches
		PaperHeight:     f64(11.69), //
		MarginTop:       f64(pxToInch(10)),
		MarginBottom:    f64(pxToInch(10)),
		MarginLeft:      f64(pxToInch(10)),
		MarginRight:     f64(pxToInch(10)),
	})
	if err != nil {
		return nil, ficha.Errorf(ficha.ECAPTURE, "printing snapshot: %v", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, ficha.Errorf(ficha.ECAPTURE, "reading PDF stream: %v", err)
	}
	if len(data) == 0 {
		return nil, ficha.Errorf(ficha.ECAPTURE, "renderer produced no bytes")
	}
	return data, nil
}

// Close dismisses the dialog best-effort: the close control when it
// exists, Escape otherwise. Failures are swallowed.
func (d *Detail) Close() {
	if d.modal != nil {
		if has, btn, err := d.modal.Has(closeImageSelector); err == nil && has {
			if err := btn.Click(proto.InputMouseButtonLeft, 1); err == nil {
				return
			}
		}
	}
	_ = d.page.Keyboard.Press(input.Escape)
}

func f64(v float64) *float64 {
	return &v
}

// pxToInch converts CSS pixels to inches for printToPDF margins.
func pxToInch(px float64) float64 {
	return px / 96.0
}
