package service

import (
	"context"

	"github.com/avantaimpex/console-backend/internal/domain"
)

const (
	homeFeaturedProducts = 6
	homeRecentPosts      = 3
	homeReviews          = 6
)

// HomeView is the public home page aggregation: a slice of each collection,
// assembled from the managers' caches.
type HomeView struct {
	FeaturedProducts []domain.Product  `json:"featuredProducts"`
	RecentPosts      []domain.BlogPost `json:"recentPosts"`
	Reviews          []domain.Review   `json:"reviews"`
}

// SiteService composes the public site views from the collection caches
type SiteService struct {
	products *Manager[domain.Product]
	posts    *Manager[domain.BlogPost]
	reviews  *Manager[domain.Review]
}

// NewSiteService creates a new SiteService
func NewSiteService(products *Manager[domain.Product], posts *Manager[domain.BlogPost], reviews *Manager[domain.Review]) *SiteService {
	return &SiteService{products: products, posts: posts, reviews: reviews}
}

// Home builds the home page aggregation. Collections load lazily on first
// use; a section whose load fails is served empty rather than failing the
// whole page.
func (s *SiteService) Home(ctx context.Context) HomeView {
	_ = s.products.EnsureLoaded(ctx)
	_ = s.posts.EnsureLoaded(ctx)
	_ = s.reviews.EnsureLoaded(ctx)

	view := HomeView{
		FeaturedProducts: []domain.Product{},
		RecentPosts:      []domain.BlogPost{},
		Reviews:          []domain.Review{},
	}

	for _, p := range s.products.Items() {
		if !p.Featured {
			continue
		}
		view.FeaturedProducts = append(view.FeaturedProducts, p)
		if len(view.FeaturedProducts) == homeFeaturedProducts {
			break
		}
	}

	posts := s.posts.Items()
	for i := 0; i < len(posts) && i < homeRecentPosts; i++ {
		view.RecentPosts = append(view.RecentPosts, posts[i])
	}

	view.Reviews = s.ApprovedReviews(ctx, homeReviews)
	return view
}

// ApprovedReviews returns up to limit approved reviews in cache order. A
// limit of 0 means no cap.
func (s *SiteService) ApprovedReviews(ctx context.Context, limit int) []domain.Review {
	_ = s.reviews.EnsureLoaded(ctx)

	out := []domain.Review{}
	for _, r := range s.reviews.Items() {
		if r.Status != domain.ReviewApproved {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
