package services

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/NurettinDemirhan/ecopacknav/internal/models"
	"github.com/NurettinDemirhan/ecopacknav/internal/types"
)

// SyncOutcome classifies one best-effort step of a relink.
type SyncOutcome string

// Sync outcomes.
const (
	SyncApplied SyncOutcome = "applied"
	SyncSkipped SyncOutcome = "skipped"
	SyncNoop    SyncOutcome = "noop"
)

// SyncResult reports what one side-write of a relink did. Skips carry the
// reason; they never abort the primary write.
type SyncResult struct {
	Step    string      `json:"step"`
	Outcome SyncOutcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// TierLinks holds the new packaging slot values for a product relink. Empty
// string unlinks a slot.
type TierLinks struct {
	Primary   string
	Secondary string
	Tertiary  string
}

// For returns the slot value for a tier.
func (t TierLinks) For(level string) string {
	switch level {
	case models.LevelPrimary:
		return t.Primary
	case models.LevelSecondary:
		return t.Secondary
	case models.LevelTertiary:
		return t.Tertiary
	}
	return ""
}

// Linker keeps the two-way connection references between products,
// packagings, and partners consistent. The entity being edited is always
// written first; back-reference fixes on the other side are best-effort and
// reported per step.
type Linker struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewLinker creates a Linker.
func NewLinker(db *gorm.DB, log *zap.Logger) *Linker {
	return &Linker{db: db, log: log}
}

// diffIDs returns the ids present only in next (added) and only in prev
// (removed). Both relink variants reduce to this set difference; the
// single-slot case is just sets of size one.
func diffIDs(prev, next []string) (added, removed []string) {
	prevSet := make(map[string]bool, len(prev))
	for _, id := range prev {
		if id != "" {
			prevSet[id] = true
		}
	}
	nextSet := make(map[string]bool, len(next))
	for _, id := range next {
		if id != "" {
			nextSet[id] = true
		}
	}
	for _, id := range next {
		if id != "" && !prevSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if id != "" && !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// UpdateProductPackagingConnections rewrites a product's three tier slots and
// synchronizes the back-reference list of every packaging that gained or lost
// the product. Returns one result per changed tier side-write.
func (l *Linker) UpdateProductPackagingConnections(ownerID, productID string, links TierLinks) ([]SyncResult, error) {
	var product models.Product
	if err := l.db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	conns := product.Connections.Data
	old := TierLinks{
		Primary:   conns.PrimaryPackage,
		Secondary: conns.SecondaryPackage,
		Tertiary:  conns.TertiaryPackage,
	}

	conns.PrimaryPackage = links.Primary
	conns.SecondaryPackage = links.Secondary
	conns.TertiaryPackage = links.Tertiary
	err := l.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("connections", models.NewJSONField(conns)).Error
	if err != nil {
		return nil, err
	}

	ref := types.Ref{ID: product.ID, Code: product.ProductCode}
	var results []SyncResult
	for _, level := range models.Levels {
		results = append(results, l.syncPackagingSlot(ownerID, ref, level, old.For(level), links.For(level))...)
	}
	return results, nil
}

// syncPackagingSlot fixes both packaging back-reference lists for one tier
// slot change.
func (l *Linker) syncPackagingSlot(ownerID string, ref types.Ref, level, oldID, newID string) []SyncResult {
	if oldID == newID {
		return []SyncResult{{Step: level, Outcome: SyncNoop, Reason: "unchanged"}}
	}
	table, _ := models.PackagingTable(level)

	var results []SyncResult
	if oldID != "" {
		step := fmt.Sprintf("%s unlink", level)
		if err := l.pullPackagingRef(table, ownerID, oldID, ref.ID); err != nil {
			results = append(results, SyncResult{Step: step, Outcome: SyncSkipped, Reason: err.Error()})
			l.log.Debug("packaging unlink skipped", zap.String("level", level), zap.Error(err))
		} else {
			results = append(results, SyncResult{Step: step, Outcome: SyncApplied})
		}
	}
	if newID != "" {
		step := fmt.Sprintf("%s link", level)
		if err := l.pushPackagingRef(table, ownerID, newID, ref); err != nil {
			results = append(results, SyncResult{Step: step, Outcome: SyncSkipped, Reason: err.Error()})
			l.log.Debug("packaging link skipped", zap.String("level", level), zap.Error(err))
		} else {
			results = append(results, SyncResult{Step: step, Outcome: SyncApplied})
		}
	}
	return results
}

func (l *Linker) pullPackagingRef(table, ownerID, packagingID, productID string) error {
	var pkg models.Packaging
	err := l.db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("packaging %s not found", packagingID)
		}
		return err
	}
	pkg.SetRefs(pkg.Refs().Without(productID))
	return l.db.Table(table).Where("id = ?", pkg.ID).Update("connections", pkg.Connections).Error
}

func (l *Linker) pushPackagingRef(table, ownerID, packagingID string, ref types.Ref) error {
	var pkg models.Packaging
	err := l.db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("packaging %s not found", packagingID)
		}
		return err
	}
	// Remove any stale link for the same product before appending, so a
	// repeated relink never duplicates.
	refs := pkg.Refs().Without(ref.ID)
	refs = append(refs, ref)
	pkg.SetRefs(refs)
	return l.db.Table(table).Where("id = ?", pkg.ID).Update("connections", pkg.Connections).Error
}

// UpdateProductCustomer rewrites a product's customer slot and fixes the
// connection lists of the old and new partner.
func (l *Linker) UpdateProductCustomer(ownerID, productID, newCustomerID string) ([]SyncResult, error) {
	var product models.Product
	if err := l.db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	conns := product.Connections.Data
	oldCustomerID := conns.Customer
	conns.Customer = newCustomerID
	err := l.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("connections", models.NewJSONField(conns)).Error
	if err != nil {
		return nil, err
	}

	if oldCustomerID == newCustomerID {
		return []SyncResult{{Step: "customer", Outcome: SyncNoop, Reason: "unchanged"}}, nil
	}

	var results []SyncResult
	if oldCustomerID != "" {
		if err := l.partnerRemoveIDs(ownerID, oldCustomerID, []string{product.ID}); err != nil {
			results = append(results, SyncResult{Step: "customer unlink", Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: "customer unlink", Outcome: SyncApplied})
		}
	}
	if newCustomerID != "" {
		if err := l.partnerAddIDs(ownerID, newCustomerID, []string{product.ID}); err != nil {
			results = append(results, SyncResult{Step: "customer link", Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: "customer link", Outcome: SyncApplied})
		}
	}
	return results, nil
}

// UpdatePackagingProducts replaces the full set of products linked to one
// packaging. Removed products get their tier slot cleared, added products get
// it pointed at the packaging, and the packaging's own list is rewritten
// canonically from a fresh product fetch.
func (l *Linker) UpdatePackagingProducts(ownerID, level, packagingID string, newProductIDs []string) error {
	table, ok := models.PackagingTable(level)
	if !ok {
		return fmt.Errorf("%w: invalid packaging level %q", ErrValidation, level)
	}

	var pkg models.Packaging
	if err := l.db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	added, removed := diffIDs(pkg.Refs().IDs(), newProductIDs)

	for _, id := range removed {
		l.setProductSlot(ownerID, id, level, "")
	}
	for _, id := range added {
		l.setProductSlot(ownerID, id, level, packagingID)
	}

	// Rebuild the canonical list from the products that actually exist.
	refs := types.RefList{}
	if len(newProductIDs) > 0 {
		var linked []models.Product
		err := l.db.Select("id", "product_code").
			Where("owner_id = ? AND id IN ?", ownerID, newProductIDs).
			Order("product_code").
			Find(&linked).Error
		if err != nil {
			return err
		}
		for _, p := range linked {
			refs = append(refs, types.Ref{ID: p.ID, Code: p.ProductCode})
		}
	}
	pkg.SetRefs(refs)
	return l.db.Table(table).Where("id = ?", pkg.ID).Update("connections", pkg.Connections).Error
}

// setProductSlot writes one tier slot of one product, best-effort.
func (l *Linker) setProductSlot(ownerID, productID, level, value string) {
	var product models.Product
	err := l.db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error
	if err != nil {
		l.log.Debug("product slot write skipped",
			zap.String("product", productID), zap.String("level", level), zap.Error(err))
		return
	}
	conns := product.Connections.Data
	conns.SetPackagingIDFor(level, value)
	err = l.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("connections", models.NewJSONField(conns)).Error
	if err != nil {
		l.log.Debug("product slot write skipped",
			zap.String("product", productID), zap.String("level", level), zap.Error(err))
	}
}

// UpdatePackagingSupplier rewrites a packaging's supplier and fixes the
// connection lists of the old and new partner.
func (l *Linker) UpdatePackagingSupplier(ownerID, level, packagingID, newSupplierID string) ([]SyncResult, error) {
	table, ok := models.PackagingTable(level)
	if !ok {
		return nil, fmt.Errorf("%w: invalid packaging level %q", ErrValidation, level)
	}

	var pkg models.Packaging
	if err := l.db.Table(table).Where("id = ? AND owner_id = ?", packagingID, ownerID).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldSupplierID := pkg.Supplier
	if err := l.db.Table(table).Where("id = ?", pkg.ID).Update("supplier", newSupplierID).Error; err != nil {
		return nil, err
	}

	var results []SyncResult
	if oldSupplierID != "" && oldSupplierID != newSupplierID {
		if err := l.partnerRemoveIDs(ownerID, oldSupplierID, []string{pkg.ID}); err != nil {
			results = append(results, SyncResult{Step: "supplier unlink", Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: "supplier unlink", Outcome: SyncApplied})
		}
	}
	if newSupplierID != "" {
		if err := l.partnerAddIDs(ownerID, newSupplierID, []string{pkg.ID}); err != nil {
			results = append(results, SyncResult{Step: "supplier link", Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: "supplier link", Outcome: SyncApplied})
		}
	}
	if len(results) == 0 {
		results = append(results, SyncResult{Step: "supplier", Outcome: SyncNoop, Reason: "unchanged"})
	}
	return results, nil
}

// UpdatePartnerConnections replaces a partner's full linked set. For a
// customer the linked ids are products; for a supplier they are packagings in
// any tier table.
func (l *Linker) UpdatePartnerConnections(ownerID, partnerID string, newIDs []string) error {
	var partner models.Partner
	if err := l.db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	added, removed := diffIDs(partner.ConnectionIDs(), newIDs)

	switch partner.PartnerType {
	case models.PartnerCustomer:
		for _, id := range removed {
			l.setProductCustomer(ownerID, id, "")
		}
		for _, id := range added {
			l.setProductCustomer(ownerID, id, partner.ID)
		}
	case models.PartnerSupplier:
		// Packaging ids are unique across tiers, so writing all three
		// tables only touches the rows that match.
		for _, level := range models.Levels {
			table, _ := models.PackagingTable(level)
			if len(removed) > 0 {
				l.db.Table(table).Where("owner_id = ? AND id IN ?", ownerID, removed).
					Update("supplier", "")
			}
			if len(added) > 0 {
				l.db.Table(table).Where("owner_id = ? AND id IN ?", ownerID, added).
					Update("supplier", partner.ID)
			}
		}
	}

	sorted := append([]string(nil), newIDs...)
	sort.Strings(sorted)
	partner.SetConnectionIDs(sorted)
	return l.db.Model(&models.Partner{}).Where("id = ?", partner.ID).
		Update("connections", partner.Connections).Error
}

// setProductCustomer writes the customer slot of one product, best-effort.
func (l *Linker) setProductCustomer(ownerID, productID, value string) {
	var product models.Product
	err := l.db.Where("id = ? AND owner_id = ?", productID, ownerID).First(&product).Error
	if err != nil {
		l.log.Debug("product customer write skipped", zap.String("product", productID), zap.Error(err))
		return
	}
	conns := product.Connections.Data
	conns.Customer = value
	err = l.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("connections", models.NewJSONField(conns)).Error
	if err != nil {
		l.log.Debug("product customer write skipped", zap.String("product", productID), zap.Error(err))
	}
}

// partnerAddIDs adds ids to a partner's connection list, deduplicating.
func (l *Linker) partnerAddIDs(ownerID, partnerID string, ids []string) error {
	var partner models.Partner
	err := l.db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("partner %s not found", partnerID)
		}
		return err
	}
	partner.SetConnectionIDs(append(partner.ConnectionIDs(), ids...))
	return l.db.Model(&models.Partner{}).Where("id = ?", partner.ID).
		Update("connections", partner.Connections).Error
}

// partnerRemoveIDs removes ids from a partner's connection list.
func (l *Linker) partnerRemoveIDs(ownerID, partnerID string, ids []string) error {
	var partner models.Partner
	err := l.db.Where("id = ? AND owner_id = ?", partnerID, ownerID).First(&partner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("partner %s not found", partnerID)
		}
		return err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]string, 0)
	for _, id := range partner.ConnectionIDs() {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	partner.SetConnectionIDs(kept)
	return l.db.Model(&models.Partner{}).Where("id = ?", partner.ID).
		Update("connections", partner.Connections).Error
}

// RefreshProductCode rewrites the denormalized product code inside every
// packaging back-reference after a product's code changes.
func (l *Linker) RefreshProductCode(ownerID, productID, newCode string) {
	for _, level := range models.Levels {
		table, _ := models.PackagingTable(level)
		var pkgs []models.Packaging
		if err := l.db.Table(table).Where("owner_id = ?", ownerID).Find(&pkgs).Error; err != nil {
			l.log.Debug("product code refresh skipped", zap.String("table", table), zap.Error(err))
			continue
		}
		for i := range pkgs {
			refs := pkgs[i].Refs()
			changed := false
			for j := range refs {
				if refs[j].ID == productID && refs[j].Code != newCode {
					refs[j].Code = newCode
					changed = true
				}
			}
			if !changed {
				continue
			}
			pkgs[i].SetRefs(refs)
			err := l.db.Table(table).Where("id = ?", pkgs[i].ID).
				Update("connections", pkgs[i].Connections).Error
			if err != nil {
				l.log.Debug("product code refresh skipped", zap.String("table", table), zap.Error(err))
			}
		}
	}
}

// UnlinkProduct removes a product's back-references from its linked
// packagings and customer; called before deleting the product.
func (l *Linker) UnlinkProduct(ownerID string, product *models.Product) []SyncResult {
	conns := product.Connections.Data
	var results []SyncResult
	for _, level := range models.Levels {
		pkgID := conns.PackagingIDFor(level)
		if pkgID == "" {
			continue
		}
		table, _ := models.PackagingTable(level)
		if err := l.pullPackagingRef(table, ownerID, pkgID, product.ID); err != nil {
			results = append(results, SyncResult{Step: level, Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: level, Outcome: SyncApplied})
		}
	}
	if conns.Customer != "" {
		if err := l.partnerRemoveIDs(ownerID, conns.Customer, []string{product.ID}); err != nil {
			results = append(results, SyncResult{Step: "customer", Outcome: SyncSkipped, Reason: err.Error()})
		} else {
			results = append(results, SyncResult{Step: "customer", Outcome: SyncApplied})
		}
	}
	return results
}

// UnlinkPackaging clears the tier slot of every product still pointing at a
// packaging; called before deleting the packaging.
func (l *Linker) UnlinkPackaging(ownerID, level, packagingID string) error {
	var products []models.Product
	if err := l.db.Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return err
	}
	for i := range products {
		conns := products[i].Connections.Data
		if conns.PackagingIDFor(level) != packagingID {
			continue
		}
		conns.SetPackagingIDFor(level, "")
		err := l.db.Model(&models.Product{}).Where("id = ?", products[i].ID).
			Update("connections", models.NewJSONField(conns)).Error
		if err != nil {
			l.log.Debug("packaging unlink skipped", zap.String("product", products[i].ID), zap.Error(err))
		}
	}
	return nil
}

// UnlinkPartner clears customer slots on products and supplier fields on
// packagings that still point at a partner; called before deleting the
// partner.
func (l *Linker) UnlinkPartner(ownerID, partnerID string) error {
	var products []models.Product
	if err := l.db.Where("owner_id = ?", ownerID).Find(&products).Error; err != nil {
		return err
	}
	for i := range products {
		conns := products[i].Connections.Data
		if conns.Customer != partnerID {
			continue
		}
		conns.Customer = ""
		err := l.db.Model(&models.Product{}).Where("id = ?", products[i].ID).
			Update("connections", models.NewJSONField(conns)).Error
		if err != nil {
			l.log.Debug("partner unlink skipped", zap.String("product", products[i].ID), zap.Error(err))
		}
	}

	for _, level := range models.Levels {
		table, _ := models.PackagingTable(level)
		err := l.db.Table(table).Where("owner_id = ? AND supplier = ?", ownerID, partnerID).
			Update("supplier", "").Error
		if err != nil {
			return err
		}
	}
	return nil
}
