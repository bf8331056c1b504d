package sqlinline

const QStatsSummary = `--sql 47668345-e200-4a93-9961-b2a0ca2f3632
select
  (select count(*) from users)                                            as total_users,
  (select count(*) from projects)                                         as total_projects,
  (select count(*) from creatives)                                        as total_creatives,
  (select count(*) from usage_log where created_at > now() - interval '24 hours') as calls_last24;
`

const QListUserOverviews = `--sql 98a729d1-db83-4b84-bf04-6c319b2f00ca
select
  u.id,
  u.email,
  u.plan,
  u.credits_remaining,
  (select count(*) from projects p where p.user_id = u.id) as total_projects,
  u.created_at
from users u
order by u.created_at desc
limit $1::int offset $2::int;
`
