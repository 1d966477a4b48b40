// Package rentals is AgroRent: equipment listings, bookings and the owner
// dashboard.
package rentals

import (
	"context"
	"fmt"
	"io"

	"agroverse/catalog"
	"agroverse/errx"
	"agroverse/logx"
	"agroverse/models"
	"agroverse/remote"
	"agroverse/utils"
)

const (
	FetchFailedMessage     = "Could not fetch equipment."
	ListFailedMessage      = "Failed to submit equipment. Please try again."
	BookFailedMessage      = "Could not send rent request."
	DashboardFailedMessage = "Could not fetch dashboard data."
	ApproveFailedMessage   = "Could not approve request."
	UploadFailedMessage    = "Could not upload image."
	FieldsMessage          = "Please fill in all fields"
	DaysMessage            = "Please enter a valid number of days."
	PriceMessage           = "Please enter a valid price per day."
	ApprovedMessage        = "Rent request approved."
)

type Service struct {
	client *remote.Client
}

func New(client *remote.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Browse(ctx context.Context, q catalog.Query) ([]catalog.Section[models.Equipment], error) {
	all, err := s.client.Equipment(ctx, "")
	if err != nil {
		return nil, errx.Network(err, FetchFailedMessage)
	}
	matched := catalog.Filter(all, q, catalog.ListingKeys[models.Equipment]())
	return catalog.Group(matched, models.Equipment.Group), nil
}

// ListingForm is the raw "list your equipment" form. Image is optional and
// is uploaded before the listing is created.
type ListingForm struct {
	Name        string
	Category    string
	Price       string
	Description string
	Phone       string
	Email       string

	Image     io.Reader
	ImageName string
}

func (s *Service) ListEquipment(ctx context.Context, form ListingForm) (models.Equipment, error) {
	if utils.Blank(form.Name, form.Category, form.Price, form.Description) {
		return models.Equipment{}, errx.Invalid(FieldsMessage)
	}
	price, err := models.ParsePrice(form.Price)
	if err != nil || price <= 0 {
		return models.Equipment{}, errx.Invalid(PriceMessage)
	}
	e := models.Equipment{
		Name:        form.Name,
		Category:    form.Category,
		Price:       price,
		Description: form.Description,
		OwnerID:     s.client.Session().UserID(),
		OwnerName:   s.client.Session().Username(),
		Phone:       form.Phone,
		Email:       form.Email,
	}
	if err := utils.Validate(e, FieldsMessage); err != nil {
		return models.Equipment{}, err
	}
	if form.Image != nil {
		link, err := s.client.Upload(ctx, form.ImageName, form.Image)
		if err != nil {
			return models.Equipment{}, errx.Network(err, UploadFailedMessage)
		}
		e.ImageURL = link
	}
	created, err := s.client.CreateEquipment(ctx, e)
	if err != nil {
		return models.Equipment{}, errx.Network(err, ListFailedMessage)
	}
	logx.Info().Str("equipment", created.ID).Str("category", created.Category).Msg("equipment listed")
	return created, nil
}

func ListedMessage(e models.Equipment) string {
	return fmt.Sprintf("Your equipment %q is now listed!", e.Name)
}

// Book sends a rent request. days is the raw form text.
func (s *Service) Book(ctx context.Context, equipment models.Equipment, days string) (models.RentRequest, error) {
	n, err := utils.ParsePositiveInt(days, DaysMessage)
	if err != nil {
		return models.RentRequest{}, err
	}
	if equipment.ID == "" {
		return models.RentRequest{}, errx.Invalid(DaysMessage)
	}
	req, err := s.client.RequestRent(ctx, models.NewRentRequest{
		EquipmentID: equipment.ID,
		UserID:      s.client.Session().UserID(),
		Days:        n,
	})
	if err != nil {
		return models.RentRequest{}, errx.Network(err, BookFailedMessage)
	}
	if req.Days == 0 {
		req.Days = n
	}
	return req, nil
}

func BookedMessage(days int) string {
	return fmt.Sprintf("Your rent request for %d days has been sent to the owner.", days)
}

type Dashboard = models.Dashboard[models.Equipment, models.RentRequest]

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	owner := s.client.Session().UserID()
	listings, err := s.client.Equipment(ctx, owner)
	if err != nil {
		return Dashboard{}, errx.Network(err, DashboardFailedMessage)
	}
	requests, err := s.client.RentRequests(ctx, owner)
	if err != nil {
		return Dashboard{}, errx.Network(err, DashboardFailedMessage)
	}
	return Dashboard{Listings: listings, Requests: requests}, nil
}

// Approve approves a rent request and returns the refreshed dashboard.
func (s *Service) Approve(ctx context.Context, requestID string) (Dashboard, error) {
	if err := s.client.ApproveRent(ctx, requestID); err != nil {
		return Dashboard{}, errx.Network(err, ApproveFailedMessage)
	}
	return s.Dashboard(ctx)
}

func (s *Service) Find(ctx context.Context, id string) (models.Equipment, error) {
	all, err := s.client.Equipment(ctx, "")
	if err != nil {
		return models.Equipment{}, errx.Network(err, FetchFailedMessage)
	}
	for _, e := range all {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Equipment{}, errx.Invalid(fmt.Sprintf("No equipment with id %q.", id))
}

// ContactOwner prefers a phone call, then email. The fallback names the
// owner by display name when known, else by id.
func ContactOwner(e models.Equipment) utils.Contact {
	name := e.OwnerName
	if name == "" {
		name = e.OwnerID
	}
	return utils.ContactURI("Owner", name, e.Phone, e.Email)
}
