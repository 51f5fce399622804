package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/haritfarms/storefront-backend/internal/config"
	"github.com/haritfarms/storefront-backend/internal/pkg/email"
)

// Review errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
)

// ReviewService handles review business logic
type ReviewService struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
	emails *email.Service
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, emails *email.Service) *ReviewService {
	return &ReviewService{
		db:     db,
		config: cfg,
		log:    log,
		emails: emails,
	}
}

// CreateReviewRequest represents review creation data. ProductID comes from
// the URL path, not the request body.
type CreateReviewRequest struct {
	ProductID uint     `json:"-"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Title     string   `json:"title"`
	Comment   string   `json:"comment" binding:"required"`
	Images    []string `json:"images"`
}

// UpdateReviewRequest represents review update data
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

// ReviewListRequest represents review list query parameters
type ReviewListRequest struct {
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=20"`
	Rating int    `form:"rating"`
	Status string `form:"status"` // Admin only: pending, approved
}

// ReviewListResponse represents paginated reviews with a rating summary
type ReviewListResponse struct {
	Reviews       []Review   `json:"reviews"`
	AverageRating float64    `json:"average_rating"`
	ReviewCount   int64      `json:"review_count"`
	Pagination    Pagination `json:"pagination"`
}

type reviewerRow struct {
	Name  string
	Email string
}

// CreateReview creates a new product review. At most one review per user and
// product is allowed. Verified purchase is detected from delivered orders.
func (s *ReviewService) CreateReview(userID uint, req *CreateReviewRequest) (*Review, error) {
	var existing Review
	if result := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing); result.Error == nil {
		return nil, ErrAlreadyReviewed
	}

	var product Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		return nil, ErrNotFound
	}

	var purchased bool
	s.db.Raw(`
		SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON o.id = oi.order_id
			WHERE o.user_id = ? AND oi.product_id = ? AND o.status = 'delivered'
		)
	`, userID, req.ProductID).Scan(&purchased)

	review := Review{
		ProductID:          req.ProductID,
		UserID:             userID,
		Rating:             req.Rating,
		Title:              strings.TrimSpace(req.Title),
		Comment:            strings.TrimSpace(req.Comment),
		IsApproved:         s.config.Review.AutoApprove,
		IsVerifiedPurchase: purchased,
	}
	for i, url := range req.Images {
		review.Images = append(review.Images, ReviewImage{URL: url, SortOrder: i})
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.sendThanks(userID, &product, review.Rating)

	s.db.Preload("Images").First(&review, review.ID)
	return &review, nil
}

func (s *ReviewService) sendThanks(userID uint, product *Product, rating int) {
	var reviewer reviewerRow
	if err := s.db.Raw(`SELECT name, email FROM users WHERE id = ?`, userID).Scan(&reviewer).Error; err != nil {
		s.log.WithError(err).Warn("Failed to load reviewer for thank-you email")
		return
	}
	s.emails.SendReviewThanks(reviewer.Email, email.ReviewEmailData{
		TemplateData: email.TemplateData{UserName: reviewer.Name},
		ProductName:  product.Name,
		Rating:       rating,
	})
}

// GetProductReviews retrieves approved reviews for a product
func (s *ReviewService) GetProductReviews(productID uint, req *ReviewListRequest) (*ReviewListResponse, error) {
	query := s.db.Model(&Review{}).
		Preload("Images").
		Where("product_id = ? AND is_approved = ?", productID, true)

	if req.Rating >= 1 && req.Rating <= 5 {
		query = query.Where("rating = ?", req.Rating)
	}

	resp, err := s.paginate(query, req)
	if err != nil {
		return nil, err
	}

	// Summary over all approved reviews, not the filtered page
	var summary struct {
		Avg   float64
		Count int64
	}
	err = s.db.Model(&Review{}).
		Where("product_id = ? AND is_approved = ?", productID, true).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	resp.AverageRating = summary.Avg
	resp.ReviewCount = summary.Count

	return resp, nil
}

// GetUserReviews retrieves all reviews written by a user, approved or not
func (s *ReviewService) GetUserReviews(userID uint, req *ReviewListRequest) (*ReviewListResponse, error) {
	query := s.db.Model(&Review{}).
		Preload("Images").
		Where("user_id = ?", userID)
	return s.paginate(query, req)
}

// GetReviewsAdmin retrieves reviews for moderation
func (s *ReviewService) GetReviewsAdmin(req *ReviewListRequest) (*ReviewListResponse, error) {
	query := s.db.Model(&Review{}).Preload("Images")

	switch req.Status {
	case "pending":
		query = query.Where("is_approved = ?", false)
	case "approved":
		query = query.Where("is_approved = ?", true)
	}
	if req.Rating >= 1 && req.Rating <= 5 {
		query = query.Where("rating = ?", req.Rating)
	}

	return s.paginate(query, req)
}

func (s *ReviewService) paginate(query *gorm.DB, req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []Review
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ReviewListResponse{
		Reviews: reviews,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// UpdateReview lets the author edit their review. Editing sends the review
// back through moderation unless auto-approve is on.
func (s *ReviewService) UpdateReview(userID, reviewID uint, req *UpdateReviewRequest) (*Review, error) {
	var review Review
	if result := s.db.Where("id = ? AND user_id = ?", reviewID, userID).First(&review); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", result.Error)
	}

	updates := make(map[string]interface{})
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, fmt.Errorf("rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Comment != nil {
		comment := strings.TrimSpace(*req.Comment)
		if comment == "" {
			return nil, fmt.Errorf("comment cannot be empty")
		}
		updates["comment"] = comment
	}

	if len(updates) > 0 {
		updates["is_approved"] = s.config.Review.AutoApprove
		if err := s.db.Model(&review).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update review: %w", err)
		}
	}

	s.db.Preload("Images").First(&review, review.ID)
	return &review, nil
}

// DeleteReview lets the author remove their review
func (s *ReviewService) DeleteReview(userID, reviewID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", reviewID, userID).Delete(&Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ApproveReview marks a review as visible on the storefront
func (s *ReviewService) ApproveReview(reviewID uint) error {
	result := s.db.Model(&Review{}).Where("id = ?", reviewID).Update("is_approved", true)
	if result.Error != nil {
		return fmt.Errorf("failed to approve review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// RejectReview removes a review during moderation
func (s *ReviewService) RejectReview(reviewID uint) error {
	result := s.db.Delete(&Review{}, reviewID)
	if result.Error != nil {
		return fmt.Errorf("failed to reject review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
